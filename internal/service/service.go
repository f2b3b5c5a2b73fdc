package service

import (
	"context"
	"sync"

	"filefixtures/internal/domain"
	"filefixtures/internal/loader"
	"filefixtures/internal/repository"
	"filefixtures/internal/repository/memory"
)

// FixtureService provides the operations behind the CLI commands and the
// HTTP API
type FixtureService struct {
	mu       sync.Mutex
	store    repository.Store
	schema   []domain.Table
	root     string
	resolver loader.Resolver
	opts     []loader.Option
	eventBus *EventBus
}

// NewFixtureService creates a service loading fixtures under root into store
func NewFixtureService(store repository.Store, schema []domain.Table, root string, resolver loader.Resolver, eventBus *EventBus, opts ...loader.Option) *FixtureService {
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &FixtureService{
		store:    store,
		schema:   schema,
		root:     root,
		resolver: resolver,
		opts:     opts,
		eventBus: eventBus,
	}
}

// Root returns the fixtures root directory
func (s *FixtureService) Root() string {
	return s.root
}

// Directories returns the directories a load of dirs would read
func (s *FixtureService) Directories(dirs ...string) ([]string, error) {
	return loader.New(s.root, s.resolver, nil, s.opts...).Directories(dirs...)
}

// InitDB drops and recreates the schema
func (s *FixtureService) InitDB(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset(ctx)
}

// Load loads dirs into the store. See loader.Loader.Load.
func (s *FixtureService) Load(ctx context.Context, dirs ...string) (loader.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, s.store, false, dirs)
}

// Reload resets the schema and loads dirs as one serialized step
func (s *FixtureService) Reload(ctx context.Context, dirs ...string) (loader.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(ctx); err != nil {
		return loader.Report{}, err
	}
	return s.load(ctx, s.store, false, dirs)
}

// DryRun loads dirs into a fresh memory sink, leaving the store untouched.
// The sink is returned even on failure so callers can inspect what got that far.
func (s *FixtureService) DryRun(ctx context.Context, dirs ...string) (loader.Report, *memory.Sink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sink := memory.New()
	report, err := s.load(ctx, sink, true, dirs)
	return report, sink, err
}

// Tables lists the tables currently in the store
func (s *FixtureService) Tables(ctx context.Context) ([]string, error) {
	return s.store.Tables(ctx)
}

// ListTable returns all rows of a table
func (s *FixtureService) ListTable(ctx context.Context, name string) ([]map[string]any, error) {
	return s.store.List(ctx, name)
}

// ListAll returns the rows of every table in the schema, keyed by table name
func (s *FixtureService) ListAll(ctx context.Context) (map[string][]map[string]any, error) {
	result := make(map[string][]map[string]any, len(s.schema))
	for _, t := range s.schema {
		rows, err := s.store.List(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		result[t.Name] = rows
	}
	return result, nil
}

func (s *FixtureService) reset(ctx context.Context) error {
	if err := s.store.Reset(ctx, s.schema); err != nil {
		return err
	}

	names := make([]string, len(s.schema))
	for i, t := range s.schema {
		names[i] = t.Name
	}
	s.eventBus.Publish(Event{
		Type:    EventSchemaReset,
		Payload: map[string][]string{"tables": names},
	})
	return nil
}

func (s *FixtureService) load(ctx context.Context, sink repository.Sink, dryRun bool, dirs []string) (loader.Report, error) {
	l := loader.New(s.root, s.resolver, sink, s.opts...)
	report, err := l.Load(ctx, dirs...)

	payload := LoadPayload{
		Dirs:        dirs,
		DryRun:      dryRun,
		Directories: report.Directories,
		Files:       report.Files,
		Instances:   report.Instances,
	}
	if err != nil {
		payload.Error = err.Error()
		s.eventBus.Publish(Event{Type: EventLoadFailed, Payload: payload})
		return report, err
	}

	s.eventBus.Publish(Event{Type: EventFixturesLoaded, Payload: payload})
	return report, nil
}
