package core

// scheduler.go keeps the store in step with the registry file on disk.
//
// The scheduler polls the file's modification time and size on every tick and
// reloads only when either changed. A failed reload keeps the previous
// registry and is retried on the next change. The loop is context-aware and
// returns when the context is cancelled.

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ReloadConfig holds configuration for the reload scheduler.
type ReloadConfig struct {
	Path     string        // Registry file to watch
	Interval time.Duration // How often to check (default: 1m)
}

const defaultReloadInterval = time.Minute

// fileStamp identifies one version of the watched file.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// StartReloadScheduler blocks, reloading s whenever cfg.Path changes.
// The file version present at start is assumed to be loaded already.
func (s *Store) StartReloadScheduler(ctx context.Context, cfg ReloadConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultReloadInterval
	}

	slog.Info("reload scheduler started",
		"path", cfg.Path,
		"interval", cfg.Interval.String(),
	)

	last, err := statFile(cfg.Path)
	if err != nil {
		slog.Warn("registry file not readable", "path", cfg.Path, "error", err)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			last = s.checkFile(ctx, cfg.Path, last)
		}
	}
}

// checkFile reloads when path differs from last and returns the stamp to
// compare against next time.
func (s *Store) checkFile(ctx context.Context, path string, last fileStamp) fileStamp {
	cur, err := statFile(path)
	if err != nil {
		slog.Debug("registry file not readable", "path", path, "error", err)
		return last
	}
	if cur.modTime.Equal(last.modTime) && cur.size == last.size {
		return last
	}

	slog.Info("registry file changed", "path", path, "mod_time", cur.modTime)
	// The stamp is kept even when the reload fails, so a broken file is tried
	// once per change instead of on every tick.
	_, _, _ = s.Reload(ctx)
	return cur
}
