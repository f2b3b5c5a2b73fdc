package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"filefixtures/internal/domain"
	"filefixtures/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

var testSchema = []domain.Table{
	{Name: "client", DDL: `CREATE TABLE client (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`},
	{Name: "sale", DDL: `CREATE TABLE sale (
		id INTEGER PRIMARY KEY,
		amount REAL,
		client_id INTEGER REFERENCES client(id)
	)`},
}

type testClient struct {
	ID   int64
	Name string
}

func (c *testClient) TableName() string { return "client" }

func (c *testClient) Columns() []string {
	if c.ID == 0 {
		return []string{"name"}
	}
	return []string{"id", "name"}
}

func (c *testClient) Values() []any {
	if c.ID == 0 {
		return []any{c.Name}
	}
	return []any{c.ID, c.Name}
}

type testSale struct {
	Amount   float64
	ClientID int64
}

func (s *testSale) TableName() string { return "sale" }
func (s *testSale) Columns() []string { return []string{"amount", "client_id"} }
func (s *testSale) Values() []any     { return []any{s.Amount, s.ClientID} }

type brokenModel struct{}

func (brokenModel) TableName() string { return "client" }
func (brokenModel) Columns() []string { return []string{"name"} }
func (brokenModel) Values() []any     { return nil }

// newTestRepo creates an in-memory SQLite repository with the test schema
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})

	if err := repo.Reset(context.Background(), testSchema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestInsertQuery(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		columns  []string
		expected string
	}{
		{
			name:     "single column",
			table:    "client",
			columns:  []string{"name"},
			expected: `INSERT INTO "client" ("name") VALUES (?)`,
		},
		{
			name:     "multiple columns",
			table:    "sale",
			columns:  []string{"amount", "client_id"},
			expected: `INSERT INTO "sale" ("amount", "client_id") VALUES (?, ?)`,
		},
		{
			name:     "no columns",
			table:    "client",
			columns:  nil,
			expected: `INSERT INTO "client" DEFAULT VALUES`,
		},
		{
			name:     "quotes identifiers",
			table:    `we"ird`,
			columns:  []string{"a"},
			expected: `INSERT INTO "we""ird" ("a") VALUES (?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, tt.expected, insertQuery(tt.table, tt.columns))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assertEqual(t, "abc", normalizeValue([]byte("abc")))
	assertEqual(t, int64(3), normalizeValue(int64(3)))
	assertEqual(t, nil, normalizeValue(nil))
}

// ============================================================================
// Unit Of Work Tests
// ============================================================================

func TestAddRejectsNonModels(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Add("not a model"); err == nil {
		t.Fatal("expected error adding a string")
	}
	if err := repo.Add(brokenModel{}); err == nil {
		t.Fatal("expected error adding a model with mismatched values")
	}
	assertEqual(t, 0, len(repo.pending))
}

func TestDiscardDropsPending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Add(&testClient{Name: "dropped"}))
	repo.Discard()
	assertNoError(t, repo.Commit(ctx))

	rows, err := repo.List(ctx, "client")
	assertNoError(t, err)
	assertEqual(t, 0, len(rows))
}

func TestCommitPersistsInOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Add(&testClient{Name: "A"}))
	assertNoError(t, repo.Add(&testClient{Name: "B"}))
	assertNoError(t, repo.Commit(ctx))
	assertEqual(t, 0, len(repo.pending))

	assertNoError(t, repo.Add(&testSale{Amount: 9.5, ClientID: 1}))
	assertNoError(t, repo.Commit(ctx))

	clients, err := repo.List(ctx, "client")
	assertNoError(t, err)
	assertEqual(t, []map[string]any{
		{"id": int64(1), "name": "A"},
		{"id": int64(2), "name": "B"},
	}, clients)

	sales, err := repo.List(ctx, "sale")
	assertNoError(t, err)
	assertEqual(t, []map[string]any{
		{"id": int64(1), "amount": 9.5, "client_id": int64(1)},
	}, sales)
}

func TestCommitIsAtomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Add(&testClient{Name: "A"}))
	assertNoError(t, repo.Commit(ctx))

	// Second unit of work violates the UNIQUE constraint on its last row
	assertNoError(t, repo.Add(&testClient{Name: "B"}))
	assertNoError(t, repo.Add(&testClient{Name: "A"}))
	err := repo.Commit(ctx)

	var pce *domain.PersistenceCommitError
	if !errors.As(err, &pce) {
		t.Fatalf("expected PersistenceCommitError, got %v", err)
	}
	assertEqual(t, 0, len(repo.pending))

	clients, err := repo.List(ctx, "client")
	assertNoError(t, err)
	assertEqual(t, 1, len(clients))
	assertEqual(t, "A", clients[0]["name"])
}

func TestCommitForeignKeyViolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Add(&testSale{Amount: 1, ClientID: 42}))
	err := repo.Commit(ctx)

	var pce *domain.PersistenceCommitError
	if !errors.As(err, &pce) {
		t.Fatalf("expected PersistenceCommitError, got %v", err)
	}

	sales, err := repo.List(ctx, "sale")
	assertNoError(t, err)
	assertEqual(t, 0, len(sales))
}

func TestCommitEmptyUnitOfWork(t *testing.T) {
	repo := newTestRepo(t)
	assertNoError(t, repo.Commit(context.Background()))
}

// ============================================================================
// Schema Tests
// ============================================================================

func TestResetClearsData(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Add(&testClient{Name: "A"}))
	assertNoError(t, repo.Commit(ctx))
	assertNoError(t, repo.Add(&testClient{Name: "pending"}))

	assertNoError(t, repo.Reset(ctx, testSchema))
	assertEqual(t, 0, len(repo.pending))

	clients, err := repo.List(ctx, "client")
	assertNoError(t, err)
	assertEqual(t, 0, len(clients))
}

func TestTables(t *testing.T) {
	repo := newTestRepo(t)

	names, err := repo.Tables(context.Background())
	assertNoError(t, err)
	assertEqual(t, []string{"client", "sale"}, names)
}

func TestListUnknownTable(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.List(context.Background(), "nope")
	if !errors.Is(err, repository.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}
