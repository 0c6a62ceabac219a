// Package watch provides a "poll, detect change, debounce, rebuild" loop
// over a set of files.
//
// Typical usage:
//
//	w := watch.New(watch.FileDetector(b.Inputs), watch.Options{Interval: 500*time.Millisecond, Debounce: 300*time.Millisecond})
//	w.OnChange(ctx, func() error { _, err := b.Build(ctx); return err })
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ChangeDetector returns a version token. Two calls that return different
// values mean "something changed". Tokens are compared for equality only.
type ChangeDetector func(ctx context.Context) (int64, error)

// Options tunes the watcher behaviour.
type Options struct {
	// Interval is the polling frequency. Default: 1s.
	Interval time.Duration
	// Debounce is the quiet period after a change is detected before the
	// action fires. Further changes during the window restart it.
	// 0 means fire immediately.
	Debounce time.Duration
	// Logger overrides the default slog logger.
	Logger *slog.Logger
	// Stale means the current state has not been acted on successfully,
	// e.g. because the initial build failed. The initial version is not
	// recorded, so the first successful poll runs the action.
	Stale bool
}

func (o *Options) defaults() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watcher polls a ChangeDetector and runs an action on change.
// Stats and Version are safe to call from other goroutines.
type Watcher struct {
	detect ChangeDetector
	opts   Options

	version atomic.Int64

	checks   atomic.Int64
	changes  atomic.Int64
	errors   atomic.Int64
	reloads  atomic.Int64
	reloadNs atomic.Int64
}

// Stats are point-in-time counters.
type Stats struct {
	Checks          int64         `json:"checks"`
	ChangesDetected int64         `json:"changes_detected"`
	Errors          int64         `json:"errors"`
	Reloads         int64         `json:"reloads"`
	AvgReloadTime   time.Duration `json:"avg_reload_time"`
}

// New creates a Watcher. Call OnChange to start the loop.
func New(detect ChangeDetector, opts Options) *Watcher {
	opts.defaults()
	return &Watcher{detect: detect, opts: opts}
}

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	s := Stats{
		Checks:          w.checks.Load(),
		ChangesDetected: w.changes.Load(),
		Errors:          w.errors.Load(),
		Reloads:         w.reloads.Load(),
	}
	if s.Reloads > 0 {
		s.AvgReloadTime = time.Duration(w.reloadNs.Load() / s.Reloads)
	}
	return s
}

// Version returns the last version for which the action succeeded.
func (w *Watcher) Version() int64 { return w.version.Load() }

// OnChange blocks until ctx is cancelled, polling at opts.Interval.
// Unless opts.Stale is set, the initial version is recorded without running
// action. When the detector reports a different version and the debounce
// window passes, action is called.
//
// If action returns an error the version is NOT advanced, so the action
// is retried on the next poll.
func (w *Watcher) OnChange(ctx context.Context, action func() error) {
	log := w.opts.Logger

	stale := w.opts.Stale
	if !stale {
		v, err := w.detect(ctx)
		if err != nil {
			log.Warn("watch: initial version check failed", "error", err)
		} else {
			w.version.Store(v)
		}
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	var pending int64
	hasPending := false

	log.Info("watch: started", "interval", w.opts.Interval, "debounce", w.opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			log.Info("watch: stopped")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-ticker.C:
			w.checks.Add(1)
			cur, err := w.detect(ctx)
			if err != nil {
				w.errors.Add(1)
				log.Warn("watch: version check failed", "error", err)
				continue
			}
			if !stale && (cur == w.version.Load() || (hasPending && cur == pending)) {
				continue
			}
			stale = false
			w.changes.Add(1)
			pending, hasPending = cur, true

			if w.opts.Debounce <= 0 {
				w.fire(log, action, pending)
				hasPending = false
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.opts.Debounce)
			debounceCh = debounceTimer.C
			log.Debug("watch: change detected, debouncing", "pending_version", cur)

		case <-debounceCh:
			debounceCh = nil
			if hasPending {
				w.fire(log, action, pending)
				hasPending = false
			}
		}
	}
}

func (w *Watcher) fire(log *slog.Logger, action func() error, ver int64) {
	log.Info("watch: rebuilding", "version", ver)
	start := time.Now()
	if err := action(); err != nil {
		w.errors.Add(1)
		log.Error("watch: rebuild failed", "error", err)
		return
	}
	elapsed := time.Since(start)
	w.reloads.Add(1)
	w.reloadNs.Add(int64(elapsed))
	w.version.Store(ver)
	log.Info("watch: rebuild complete", "duration", elapsed)
}

// ---------- Built-in detectors ----------

// FileDetector returns a ChangeDetector that fingerprints the files listed
// by list: path, size and modification time of each, hashed into one token.
// Missing files contribute their path only, so creating or deleting a file
// changes the token. If list fails but still returns paths, those are used.
func FileDetector(list func(ctx context.Context) ([]string, error)) ChangeDetector {
	return func(ctx context.Context) (int64, error) {
		paths, err := list(ctx)
		if len(paths) == 0 && err != nil {
			return 0, err
		}
		return Fingerprint(paths)
	}
}

// Fingerprint hashes path, size and mtime of every path. Order-independent.
func Fingerprint(paths []string) (int64, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := xxhash.New()
	for _, p := range sorted {
		h.WriteString(p)
		h.WriteString("\x00")
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				h.WriteString("-\n")
				continue
			}
			return 0, err
		}
		h.WriteString(strconv.FormatInt(info.Size(), 10))
		h.WriteString("\x00")
		h.WriteString(strconv.FormatInt(info.ModTime().UnixNano(), 10))
		h.WriteString("\n")
	}
	return int64(h.Sum64()), nil
}
