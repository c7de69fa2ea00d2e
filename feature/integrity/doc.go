// Package integrity checks the infrastructure the catalog synchronization
// depends on.
//
// # Checks Provided
//
//   - Schema: Validates that the catalog tables carry every column of the models, and the declared types where a model pins one.
//   - Storage: Verifies that the thumbnail bucket exists and holds the marker object of each prefix.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
