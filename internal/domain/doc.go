// Package domain defines the core types for loading fixture files.
//
// A fixture file is a serialized list of groups. Each group names a model
// (a dotted type name such as "app.Client") and carries an ordered list of
// records, where a record maps field names to raw decoded values.
//
// # Core Types
//
// FixtureFile is a file scheduled for loading, with its inferred Format and
// its position in the load order of its directory.
//
// Group and Record are the format-independent intermediate representation
// produced by the codec parsers and consumed by the loader.
//
// Model is implemented by materialized instances that a relational store
// can persist, and Table describes the schema a host application exposes.
//
// # Errors
//
// The loading pipeline fails fast with one of the typed errors in this
// package: UnsupportedFormatError, ParseError, TypeResolutionError,
// RecordConstructionError, PersistenceCommitError and OrderFileError.
// Each carries the file path and, where it applies, the model name, record
// index and field name.
//
// # Design Principles
//
// - No database or external dependencies
// - Record and group order is always the declaration order of the source file
package domain
