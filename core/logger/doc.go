// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework and the refresh scheduler.
//
// # Correlation
//
// WithRayID extracts the RayID (request ID) from a Fiber context and attaches it to the
// log entry. WithRun does the same for the identifier of a price refresh run, so that
// every checkpoint of a resumed run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	l := logger.WithRun(log, cursor.RunID)
//	l.Info("Checkpoint persisted", zap.Int("processed", n))
package logger
