// Package integrity provides system health checks for the pricer.
//
// # Checks Provided
//
//   - Schema: Validates that the connected database holds every column of the
//     inventory, durable cache and value log models.
//   - Storage: Checks that the bucket of the object durable tier exists (supports fixing).
//   - Sources: Reports whether a price source is configured.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/sources : Reports source configuration.
package integrity
