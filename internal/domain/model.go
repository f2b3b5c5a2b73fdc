package domain

// Model is implemented by materialized instances that a relational store
// can persist. Columns and Values must have the same length and order.
type Model interface {
	TableName() string
	Columns() []string
	Values() []any
}

// Table describes one table of a host application's schema
type Table struct {
	Name string
	// DDL is the CREATE TABLE statement for the table
	DDL string
}
