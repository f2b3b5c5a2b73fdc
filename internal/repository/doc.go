// Package repository defines the persistence boundary of the fixture loader.
//
// # Sink Interface
//
// The loader depends only on Sink: Add enqueues one materialized instance
// into the pending unit of work and Commit persists everything pending in a
// single atomic step. The loader commits exactly once per fixture file, so a
// failing file never leaves partial rows behind while files committed before
// it stay committed.
//
// # Implementations
//
// The sqlite subpackage persists instances implementing domain.Model into
// SQLite tables inside one transaction per commit, and also implements Store
// so the CLI can reset the demo schema and list loaded rows.
//
// The memory subpackage keeps committed instances in memory and records the
// sequence of add and commit calls. It backs dry runs and tests.
package repository
