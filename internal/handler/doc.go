// Package handler implements the HTTP surface of the fixture loader.
//
// FixtureHandler exposes the loaded tables and lets clients trigger a load:
//
//	GET  /                     rows of every demo table, keyed by table name
//	GET  /api/tables           table names
//	GET  /api/tables/{name}    rows of one table
//	POST /api/fixtures/load    {"dirs": [...], "reset": bool, "dry_run": bool}
//
// Errors are returned as JSON with an {error, details} structure. Load
// failures carry the failing file and a kind naming the pipeline stage.
//
// Middleware provides panic recovery, CORS and request logging.
package handler
