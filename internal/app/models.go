// Package app is the demo host application: a small sales schema whose
// models fixture files can reference as "app.Client", "app.Sale" and
// "app.Address".
package app

import (
	"database/sql"
	"time"

	"filefixtures/internal/domain"
	"filefixtures/internal/registry"
)

// Namespace is the model namespace the demo types are registered under
const Namespace = "app"

// Client is a client who has made sales
type Client struct {
	ID    int64  `fixture:"id" json:"id"`
	Name  string `fixture:"name" json:"name"`
	Email string `fixture:"email" json:"email,omitempty"`
	Phone string `fixture:"phone" json:"phone,omitempty"`
}

func (c *Client) TableName() string { return "client" }

func (c *Client) Columns() []string {
	return withID(c.ID, "name", "email", "phone")
}

func (c *Client) Values() []any {
	return withIDValue(c.ID, c.Name, stringToNull(c.Email), stringToNull(c.Phone))
}

// Sale is a sale made by a client
type Sale struct {
	ID          int64      `fixture:"id" json:"id"`
	Amount      float64    `fixture:"amount" json:"amount"`
	Description string     `fixture:"description" json:"description,omitempty"`
	Timestamp   *time.Time `fixture:"timestamp" json:"timestamp,omitempty"`
	ClientID    *int64     `fixture:"client_id" json:"client_id,omitempty"`
}

func (s *Sale) TableName() string { return "sale" }

func (s *Sale) Columns() []string {
	return withID(s.ID, "amount", "description", "timestamp", "client_id")
}

func (s *Sale) Values() []any {
	return withIDValue(s.ID, s.Amount, stringToNull(s.Description), timePtrToNull(s.Timestamp), int64PtrToNull(s.ClientID))
}

// Address is an address for a client
type Address struct {
	ID       int64  `fixture:"id" json:"id"`
	Street   string `fixture:"street" json:"street,omitempty"`
	City     string `fixture:"city" json:"city,omitempty"`
	State    string `fixture:"state" json:"state,omitempty"`
	ZipCode  string `fixture:"zip_code" json:"zip_code,omitempty"`
	ClientID *int64 `fixture:"client_id" json:"client_id,omitempty"`
}

func (a *Address) TableName() string { return "address" }

func (a *Address) Columns() []string {
	return withID(a.ID, "street", "city", "state", "zip_code", "client_id")
}

func (a *Address) Values() []any {
	return withIDValue(a.ID, stringToNull(a.Street), stringToNull(a.City), stringToNull(a.State), stringToNull(a.ZipCode), int64PtrToNull(a.ClientID))
}

// Schema returns the demo tables, parents before dependents
func Schema() []domain.Table {
	return []domain.Table{
		{Name: "client", DDL: `CREATE TABLE client (
			id INTEGER PRIMARY KEY,
			name TEXT,
			email TEXT,
			phone TEXT
		)`},
		{Name: "sale", DDL: `CREATE TABLE sale (
			id INTEGER PRIMARY KEY,
			amount REAL,
			description TEXT,
			timestamp DATETIME,
			client_id INTEGER REFERENCES client(id)
		)`},
		{Name: "address", DDL: `CREATE TABLE address (
			id INTEGER PRIMARY KEY,
			street TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			client_id INTEGER REFERENCES client(id)
		)`},
	}
}

// Register exposes the demo models to fixture files
func Register(r *registry.Registry) {
	r.MustRegister(Namespace+".Client", registry.Struct[Client]())
	r.MustRegister(Namespace+".Sale", registry.Struct[Sale]())
	r.MustRegister(Namespace+".Address", registry.Struct[Address]())
}

// withID prepends the id column when the fixture sets an explicit id;
// otherwise SQLite assigns one.
func withID(id int64, cols ...string) []string {
	if id == 0 {
		return cols
	}
	return append([]string{"id"}, cols...)
}

func withIDValue(id int64, vals ...any) []any {
	if id == 0 {
		return vals
	}
	return append([]any{id}, vals...)
}

// stringToNull stores an empty string as NULL
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func int64PtrToNull(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// timePtrToNull stores a timestamp as RFC 3339 text in UTC
func timePtrToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}
