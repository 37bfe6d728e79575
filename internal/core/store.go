package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LoadFunc produces a fresh registry, typically by calling LoadFile.
type LoadFunc func(ctx context.Context) (*Registry, []Diagnostic, error)

// ReloadObserver is notified after a successful reload.
type ReloadObserver func(ctx context.Context, reg *Registry, diags []Diagnostic)

// Store holds the current registry and swaps it on reload.
// Readers never block: a reload builds a complete registry first and only then
// replaces the pointer, so a reader sees either the old or the new data.
type Store struct {
	load LoadFunc

	current atomic.Pointer[Registry]
	slot    chan struct{} // held by the running reload

	mu        sync.RWMutex
	observers []ReloadObserver
	lastErr   error
	lastDiags []Diagnostic
}

// NewStore returns an empty store backed by load. Call Reload to populate it.
func NewStore(load LoadFunc) *Store {
	return &Store{load: load, slot: make(chan struct{}, 1)}
}

// FileLoader returns a LoadFunc reading path with opts.
func FileLoader(path string, opts LoadOptions) LoadFunc {
	return func(ctx context.Context) (*Registry, []Diagnostic, error) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		return LoadFile(path, opts)
	}
}

// Current returns the active registry, or nil before the first successful load.
func (s *Store) Current() *Registry {
	return s.current.Load()
}

// Handle returns a query handle over the active registry.
func (s *Store) Handle(opts ...HandleOption) (*Handle, error) {
	reg := s.Current()
	if reg == nil {
		return nil, ErrNoRegistry
	}
	return NewHandle(reg, opts...), nil
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn ReloadObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// LastResult returns the diagnostics and error of the most recent reload attempt.
func (s *Store) LastResult() ([]Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDiags, s.lastErr
}

// Reload runs the loader and, on success, makes the result the active registry.
// On failure the previous registry stays active and the error is returned.
// Reloads never overlap: Reload waits for a running one until ctx is done.
func (s *Store) Reload(ctx context.Context) (*Registry, []Diagnostic, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	defer func() { <-s.slot }()
	return s.reloadHeld(ctx)
}

// ReloadWithin is Reload for callers that must not queue for long: when a
// running reload still holds the store after wait, it returns ErrBusy.
func (s *Store) ReloadWithin(ctx context.Context, wait time.Duration) (*Registry, []Diagnostic, error) {
	select {
	case s.slot <- struct{}{}:
	default:
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case s.slot <- struct{}{}:
		case <-timer.C:
			return nil, nil, ErrBusy
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	defer func() { <-s.slot }()
	return s.reloadHeld(ctx)
}

func (s *Store) reloadHeld(ctx context.Context) (*Registry, []Diagnostic, error) {
	start := time.Now()
	reg, diags, err := s.load(ctx)
	if err == nil && reg == nil {
		err = errors.New("loader returned no registry")
	}

	s.mu.Lock()
	s.lastDiags = diags
	s.lastErr = err
	observers := append([]ReloadObserver(nil), s.observers...)
	s.mu.Unlock()

	if err != nil {
		slog.Error("registry reload failed",
			"error", err,
			"diagnostics", len(diags),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, diags, fmt.Errorf("reload registry: %w", err)
	}

	prev := s.current.Swap(reg)
	attrs := []any{
		"load_id", reg.ID().String(),
		"source", reg.Source(),
		"records", reg.Len(),
		"diagnostics", len(diags),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if prev != nil {
		attrs = append(attrs, "previous_load_id", prev.ID().String())
	}
	slog.Info("registry loaded", attrs...)

	for _, fn := range observers {
		fn(ctx, reg, diags)
	}
	return reg, diags, nil
}
