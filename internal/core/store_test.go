package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStore_ReloadSwapsRegistry(t *testing.T) {
	s := NewStore(FileLoader(sampleFile, LoadOptions{}))

	if s.Current() != nil {
		t.Fatal("new store should be empty")
	}
	if _, err := s.Handle(); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("Handle on empty store: expected ErrNoRegistry, got %v", err)
	}

	var observed []*Registry
	s.OnReload(func(_ context.Context, reg *Registry, diags []Diagnostic) {
		observed = append(observed, reg)
		if len(diags) == 0 {
			t.Error("observer expected the sample diagnostics")
		}
	})

	first, _, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	second, _, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("second Reload: %v", err)
	}

	if s.Current() != second {
		t.Error("Current should return the latest registry")
	}
	if first.ID() == second.ID() {
		t.Error("reload should produce a new load ID")
	}
	if len(observed) != 2 || observed[1] != second {
		t.Errorf("observers saw %d registries", len(observed))
	}

	h, err := s.Handle(WithDiacritics(DiacriticConfig{StripAll: true}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if name, _ := h.Name(38, false); name != "ARGES" {
		t.Errorf("Name(38) = %q, want ARGES", name)
	}
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	fail := false
	s := NewStore(func(ctx context.Context) (*Registry, []Diagnostic, error) {
		if fail {
			return nil, nil, ErrSourceUnavailable
		}
		return LoadFile(sampleFile, LoadOptions{})
	})

	good, _, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}

	fail = true
	if _, _, err := s.Reload(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if s.Current() != good {
		t.Error("failed reload replaced the active registry")
	}
	if _, lastErr := s.LastResult(); !errors.Is(lastErr, ErrSourceUnavailable) {
		t.Errorf("LastResult error = %v", lastErr)
	}
}

func TestStore_NilRegistryIsError(t *testing.T) {
	s := NewStore(func(ctx context.Context) (*Registry, []Diagnostic, error) {
		return nil, nil, nil
	})
	if _, _, err := s.Reload(context.Background()); err == nil {
		t.Error("expected error for a loader returning no registry")
	}
}

func TestFileLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := FileLoader(sampleFile, LoadOptions{})(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStore_ConcurrentReadersDuringReload(t *testing.T) {
	s := NewStore(FileLoader(sampleFile, LoadOptions{}))
	if _, _, err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				reg := s.Current()
				if reg == nil || reg.Len() != 21 {
					t.Error("reader saw an incomplete registry")
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		if _, _, err := s.Reload(context.Background()); err != nil {
			t.Errorf("Reload: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

// blockingLoader loads the sample file, but the second and later calls wait
// for release after signalling entered.
func blockingLoader(entered chan<- struct{}, release <-chan struct{}) LoadFunc {
	load := FileLoader(sampleFile, LoadOptions{})
	var calls int
	return func(ctx context.Context) (*Registry, []Diagnostic, error) {
		calls++
		if calls > 1 {
			entered <- struct{}{}
			<-release
		}
		return load(ctx)
	}
}

func TestStore_ReloadWithinBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	s := NewStore(blockingLoader(entered, release))
	if _, _, err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	running := make(chan error, 1)
	go func() {
		_, _, err := s.Reload(context.Background())
		running <- err
	}()
	<-entered

	if _, _, err := s.ReloadWithin(context.Background(), 20*time.Millisecond); !errors.Is(err, ErrBusy) {
		t.Errorf("ReloadWithin during a reload = %v, want ErrBusy", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := s.Reload(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("queued Reload = %v, want deadline exceeded", err)
	}

	close(release)
	if err := <-running; err != nil {
		t.Fatalf("running Reload: %v", err)
	}

	go func() { <-entered }()
	if _, _, err := s.ReloadWithin(context.Background(), time.Second); err != nil {
		t.Errorf("ReloadWithin on an idle store = %v", err)
	}
}

func TestStore_CheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siruta.csv")

	data, err := os.ReadFile(sampleFile)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loads := 0
	s := NewStore(func(ctx context.Context) (*Registry, []Diagnostic, error) {
		loads++
		return LoadFile(path, LoadOptions{})
	})

	stamp, err := statFile(path)
	if err != nil {
		t.Fatalf("statFile: %v", err)
	}

	// Unchanged file: no reload.
	stamp = s.checkFile(context.Background(), path, stamp)
	if loads != 0 {
		t.Errorf("unchanged file triggered %d loads", loads)
	}

	// A new modification time triggers a reload.
	later := time.Now().Add(time.Minute)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	stamp = s.checkFile(context.Background(), path, stamp)
	if loads != 1 {
		t.Errorf("changed file triggered %d loads, want 1", loads)
	}
	if s.Current() == nil {
		t.Error("expected a registry after reload")
	}

	// Missing file keeps the previous stamp and does not reload.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.checkFile(context.Background(), path, stamp); !got.modTime.Equal(stamp.modTime) {
		t.Error("missing file changed the stamp")
	}
	if loads != 1 {
		t.Errorf("missing file triggered a load")
	}
}

func TestStore_StartReloadSchedulerStops(t *testing.T) {
	s := NewStore(FileLoader(sampleFile, LoadOptions{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartReloadScheduler(ctx, ReloadConfig{Path: sampleFile, Interval: 10 * time.Millisecond})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
