// Package memory provides an in-memory fixture sink.
package memory

import (
	"context"
	"errors"
	"sync"

	"filefixtures/internal/domain"
)

// Op is the kind of a recorded sink call
type Op string

const (
	OpAdd     Op = "add"
	OpCommit  Op = "commit"
	OpDiscard Op = "discard"
)

// Event is one recorded call on the sink
type Event struct {
	Op       Op
	Instance any
}

// Sink keeps committed instances in memory and records every call
type Sink struct {
	mu        sync.Mutex
	pending   []any
	committed []any
	events    []Event

	// FailAdd, when set, is called before each add; a non-nil result
	// rejects that instance.
	FailAdd func(instance any) error

	// FailCommit, when set, is called before each commit; a non-nil
	// result fails that commit and discards the pending instances.
	FailCommit func(pending []any) error
}

// New creates an empty sink
func New() *Sink {
	return &Sink{}
}

// Add enqueues an instance
func (s *Sink) Add(instance any) error {
	if instance == nil {
		return errors.New("cannot add nil instance")
	}
	if s.FailAdd != nil {
		if err := s.FailAdd(instance); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, instance)
	s.events = append(s.events, Event{Op: OpAdd, Instance: instance})
	return nil
}

// Commit moves all pending instances to the committed set
func (s *Sink) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, Event{Op: OpCommit})
	pending := s.pending
	s.pending = nil

	if err := ctx.Err(); err != nil {
		return &domain.PersistenceCommitError{Err: err}
	}
	if s.FailCommit != nil {
		if err := s.FailCommit(pending); err != nil {
			return &domain.PersistenceCommitError{Err: err}
		}
	}

	s.committed = append(s.committed, pending...)
	return nil
}

// Discard drops the pending instances
func (s *Sink) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	s.events = append(s.events, Event{Op: OpDiscard})
}

// Events returns a copy of the recorded calls, oldest first
func (s *Sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Committed returns a copy of all committed instances, in commit order
func (s *Sink) Committed() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.committed...)
}

// Pending returns the number of instances waiting for commit
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Commits returns the number of commit calls, failed ones included
func (s *Sink) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Op == OpCommit {
			n++
		}
	}
	return n
}
