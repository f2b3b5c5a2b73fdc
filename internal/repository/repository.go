package repository

import (
	"context"
	"errors"

	"filefixtures/internal/domain"
)

// ErrTableNotFound is returned by Store.List for a table that does not exist
var ErrTableNotFound = errors.New("table not found")

// Sink accumulates materialized instances and persists them as one unit of work
type Sink interface {
	// Add enqueues an instance into the pending unit of work
	Add(instance any) error
	// Commit persists everything pending atomically and clears the queue.
	// Failures are reported as *domain.PersistenceCommitError.
	Commit(ctx context.Context) error
	// Discard drops everything pending without persisting it
	Discard()
}

// Store is a Sink that also manages the schema it writes into
type Store interface {
	Sink

	// Reset drops and recreates the given tables, leaving them empty
	Reset(ctx context.Context, tables []domain.Table) error
	// Tables lists the tables present in the store, sorted by name
	Tables(ctx context.Context) ([]string, error)
	// List returns every row of a table as column -> value maps, in insertion order
	List(ctx context.Context, table string) ([]map[string]any, error)

	// Close releases resources
	Close() error
}
