// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: Rejects requests without the configured X-API-Key. Paths listed as
//     public (the metrics endpoint) and deployments without a key are let through.
//   - rayid: Tags every request with a ray ID, reusing an incoming X-Ray-ID header
//     when present, and stores it in the context locals for logger.WithRayID.
//
// rayid is registered first so every later log line can carry the ray ID.
package middleware
