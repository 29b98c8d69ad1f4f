// Package history keeps the bounded result log in sync with a key-value store.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/typesync/internal/model"
)

// DefaultSuccessHold is how long Success is shown before reverting to Idle.
const DefaultSuccessHold = 1500 * time.Millisecond

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("history adapter closed")

// Store is an asynchronous-style key-value service. Get returns only the
// keys present; Set reports the store's error for the write, if any.
type Store interface {
	Get(ctx context.Context, keys []string) (map[string][]byte, error)
	Set(ctx context.Context, entries map[string][]byte) error
}

// Config contains runtime options for Adapter.
type Config struct {
	Key         string
	Limit       int
	SuccessHold time.Duration
	// OnStatus is called after every status change, outside the lock.
	OnStatus func(model.SyncStatus)
}

// Adapter reads and appends the result log. The cache holds the last
// known log: the store's copy after Load, the optimistic copy after an
// Append. Appends are not serialized against each other; whichever write
// lands last wins.
type Adapter struct {
	store Store
	cfg   Config

	mu     sync.Mutex
	cache  []model.TestResult
	status model.SyncStatus
	gen    uint64
	timer  *time.Timer
	closed bool
}

// New creates an Adapter with defaults applied to cfg.
func New(store Store, cfg Config) *Adapter {
	if cfg.Key == "" {
		cfg.Key = model.HistoryKey
	}
	if cfg.Limit <= 0 {
		cfg.Limit = model.HistoryLimit
	}
	if cfg.SuccessHold <= 0 {
		cfg.SuccessHold = DefaultSuccessHold
	}
	return &Adapter{store: store, cfg: cfg}
}

// Load reads the log from the store. On failure it falls back to the
// cached log, or an empty one, and never reports an error.
func (a *Adapter) Load(ctx context.Context) []model.TestResult {
	log, err := a.read(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		return cloneResults(a.cache)
	}
	a.cache = truncate(log, a.cfg.Limit)
	return cloneResults(a.cache)
}

// Append prepends result to the stored log, truncates it, and writes it
// back. The returned log is the written one on success and the optimistic
// local copy on failure.
func (a *Adapter) Append(ctx context.Context, result model.TestResult) ([]model.TestResult, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	a.cache = prepend(result, a.cache, a.cfg.Limit)
	optimistic := cloneResults(a.cache)
	gen := a.setStatusLocked(model.SyncSyncing)
	a.mu.Unlock()
	a.notify(model.SyncSyncing)

	stored, err := a.read(ctx)
	if err != nil {
		a.fail(gen)
		return optimistic, err
	}
	updated := prepend(result, stored, a.cfg.Limit)
	payload, err := json.Marshal(updated)
	if err != nil {
		a.fail(gen)
		return optimistic, fmt.Errorf("failed to encode history: %w", err)
	}
	if err := a.store.Set(ctx, map[string][]byte{a.cfg.Key: payload}); err != nil {
		a.fail(gen)
		return optimistic, fmt.Errorf("failed to write history: %w", err)
	}

	a.mu.Lock()
	if a.gen != gen {
		// A newer append or reset owns the status now.
		a.mu.Unlock()
		return cloneResults(updated), nil
	}
	a.cache = cloneResults(updated)
	a.setStatusLocked(model.SyncSuccess)
	gen = a.gen
	if !a.closed {
		a.timer = time.AfterFunc(a.cfg.SuccessHold, func() { a.settle(gen) })
	}
	a.mu.Unlock()
	a.notify(model.SyncSuccess)
	return cloneResults(updated), nil
}

// History returns the cached log.
func (a *Adapter) History() []model.TestResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneResults(a.cache)
}

// Status returns the current sync status.
func (a *Adapter) Status() model.SyncStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// ResetStatus clears a Success or Error status back to Idle. A Syncing
// status is left alone so the in-flight write still reports its outcome.
func (a *Adapter) ResetStatus() {
	a.mu.Lock()
	if a.status == model.SyncIdle || a.status == model.SyncSyncing {
		a.mu.Unlock()
		return
	}
	a.setStatusLocked(model.SyncIdle)
	a.mu.Unlock()
	a.notify(model.SyncIdle)
}

// Close stops the pending Idle transition. Later Appends fail with ErrClosed.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.stopTimerLocked()
}

func (a *Adapter) read(ctx context.Context) ([]model.TestResult, error) {
	values, err := a.store.Get(ctx, []string{a.cfg.Key})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	raw, ok := values[a.cfg.Key]
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var log []model.TestResult
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return log, nil
}

func (a *Adapter) fail(gen uint64) {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return
	}
	a.setStatusLocked(model.SyncError)
	a.mu.Unlock()
	a.notify(model.SyncError)
}

func (a *Adapter) settle(gen uint64) {
	a.mu.Lock()
	if a.gen != gen || a.status != model.SyncSuccess {
		a.mu.Unlock()
		return
	}
	a.setStatusLocked(model.SyncIdle)
	a.mu.Unlock()
	a.notify(model.SyncIdle)
}

func (a *Adapter) setStatusLocked(status model.SyncStatus) uint64 {
	a.stopTimerLocked()
	a.status = status
	a.gen++
	return a.gen
}

func (a *Adapter) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Adapter) notify(status model.SyncStatus) {
	if a.cfg.OnStatus != nil {
		a.cfg.OnStatus(status)
	}
}

func prepend(result model.TestResult, log []model.TestResult, limit int) []model.TestResult {
	out := make([]model.TestResult, 0, len(log)+1)
	out = append(out, result)
	out = append(out, log...)
	return truncate(out, limit)
}

func truncate(log []model.TestResult, limit int) []model.TestResult {
	if len(log) > limit {
		log = log[:limit]
	}
	return log
}

func cloneResults(log []model.TestResult) []model.TestResult {
	out := make([]model.TestResult, len(log))
	copy(out, log)
	return out
}
