// Package loader loads fixture directories into a persistence sink.
//
// Directories are processed one after another, files within a directory in
// their resolved order, and each file is parsed, materialized, added to the
// sink and committed before the next one is read. The first error stops the
// whole run and is returned as is; files committed before it stay committed.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"filefixtures/internal/codec"
	"filefixtures/internal/domain"
	"filefixtures/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Loader loads fixture files found under a root directory.
// A Loader is not safe for concurrent use.
type Loader struct {
	root      string
	orderFile string
	parsers   codec.Table
	resolver  Resolver
	sink      repository.Sink
	logger    *slog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithOrderFile sets the name of the per-directory order file
func WithOrderFile(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.orderFile = name
		}
	}
}

// WithParsers replaces the extension dispatch table
func WithParsers(t codec.Table) Option {
	return func(l *Loader) {
		l.parsers = t
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Report summarizes a successful run
type Report struct {
	Directories int
	Files       int
	Instances   int
}

// New creates a loader for fixtures under root
func New(root string, resolver Resolver, sink repository.Sink, opts ...Option) *Loader {
	l := &Loader{
		root:      root,
		orderFile: DefaultOrderFile,
		parsers:   codec.DefaultTable(),
		resolver:  resolver,
		sink:      sink,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the fixtures root directory
func (l *Loader) Root() string {
	return l.root
}

// Directories returns the directories a Load with dirs would process.
// No dirs means the root itself; every name must stay inside the root.
func (l *Loader) Directories(dirs ...string) ([]string, error) {
	if len(dirs) == 0 {
		return []string{l.root}, nil
	}

	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !filepath.IsLocal(d) {
			return nil, fmt.Errorf("fixture directory %q must be a relative path inside %s", d, l.root)
		}
		paths = append(paths, filepath.Join(l.root, d))
	}
	return paths, nil
}

// LoadRoot loads the fixtures root directory itself
func (l *Loader) LoadRoot(ctx context.Context) (Report, error) {
	return l.Load(ctx)
}

// Load loads each named subdirectory of the root, in argument order.
// With no names the root itself is loaded.
func (l *Loader) Load(ctx context.Context, dirs ...string) (Report, error) {
	var report Report

	targets, err := l.Directories(dirs...)
	if err != nil {
		return report, err
	}

	log := l.logger.With("run_id", uuid.NewString())
	m := newMaterializer(l.resolver)

	for _, dir := range targets {
		files, err := l.ResolveDir(dir)
		if err != nil {
			log.Error("Failed to resolve fixture directory", "dir", dir, "error", err)
			return report, err
		}
		log.Info("Loading fixture directory", "dir", dir, "files", len(files))

		for _, f := range files {
			n, err := l.loadFile(ctx, log, m, f)
			if err != nil {
				log.Error("Failed to load fixture file", "path", f.Path, "error", err)
				return report, err
			}
			report.Files++
			report.Instances += n
		}
		report.Directories++
	}

	log.Info("Fixtures loaded",
		"directories", report.Directories,
		"files", report.Files,
		"instances", report.Instances)
	return report, nil
}

// LoadFile loads a single fixture file and commits it
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	format, _ := domain.FormatForPath(abs)

	_, err = l.loadFile(ctx, l.logger, newMaterializer(l.resolver), domain.FixtureFile{
		Path:   abs,
		Format: format,
	})
	return err
}

func (l *Loader) loadFile(ctx context.Context, log *slog.Logger, m *materializer, f domain.FixtureFile) (int, error) {
	parser, ok := l.parsers.ForPath(f.Path)
	if !ok {
		return 0, &domain.UnsupportedFormatError{Path: f.Path}
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture %q: %w", f.Path, err)
	}

	groups, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, &domain.ParseError{Path: f.Path, Format: parser.Format(), Err: err}
	}

	instances, err := m.materialize(f.Path, groups)
	if err != nil {
		return 0, err
	}

	for i, inst := range instances {
		if err := l.sink.Add(inst); err != nil {
			l.sink.Discard()
			return 0, fmt.Errorf("fixture %q: failed to add instance %d: %w", f.Path, i, err)
		}
	}

	if err := l.sink.Commit(ctx); err != nil {
		var pce *domain.PersistenceCommitError
		if !errors.As(err, &pce) {
			return 0, &domain.PersistenceCommitError{Path: f.Path, Err: err}
		}
		if pce.Path == "" {
			pce.Path = f.Path
		}
		return 0, err
	}

	log.Info("Loaded fixture file",
		"path", f.Path,
		"position", f.Position,
		"size", humanize.Bytes(uint64(len(data))),
		"groups", len(groups),
		"instances", len(instances))
	return len(instances), nil
}
