package rotator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/angeloszaimis/account-rotator/internal/account"
	"github.com/angeloszaimis/account-rotator/internal/health"
	"github.com/angeloszaimis/account-rotator/internal/metrics"
	"github.com/angeloszaimis/account-rotator/internal/store"
)

// CursorKey is the shared-store key holding the index of the next account to
// try, as a decimal string with no TTL.
const CursorKey = "account_rotation_index"

// ErrNoAccountsConfigured is returned by GetAccount when the pool is empty.
// This is fatal configuration, not a transient condition.
var ErrNoAccountsConfigured = errors.New("no accounts configured")

// Rotator selects accounts round-robin over the healthy subset of the pool.
// The rotation cursor lives in the shared store so every instance continues
// the same rotation; concurrent advances are last-write-wins and the local
// cursor is only a fallback for when the store cannot be read.
type Rotator struct {
	pool      *account.Pool
	tracker   *health.Tracker
	store     store.Store
	logger    *slog.Logger
	collector *metrics.Collector

	mutex       sync.Mutex
	localCursor int
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithCollector wires a metrics collector. Selection and failure events are
// emitted non-blocking; a full event channel drops events rather than
// delaying selection.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Rotator) {
		r.collector = c
	}
}

// New creates a Rotator over the given pool, health tracker, and shared
// store.
func New(pool *account.Pool, tracker *health.Tracker, st store.Store, logger *slog.Logger, opts ...Option) *Rotator {
	r := &Rotator{
		pool:    pool,
		tracker: tracker,
		store:   st,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetAccount returns the next usable account. It scans circularly from the
// shared cursor and returns the first healthy candidate, advancing the
// cursor past it. When every account is cooling down it still returns the
// account at the pre-scan cursor rather than refusing to answer; under
// global saturation serving a possibly-limited account beats serving nobody.
func (r *Rotator) GetAccount(ctx context.Context) (account.Account, error) {
	n := r.pool.Count()
	if n == 0 {
		return account.Account{}, ErrNoAccountsConfigured
	}

	start := r.readCursor(ctx, n)

	selected := start
	found := false
	for i := 0; i < n; i++ {
		candidate := (start + i) % n
		if r.tracker.IsHealthy(ctx, candidate) {
			selected = candidate
			found = true
			break
		}
	}

	if !found {
		r.logger.Warn("all accounts cooling down, serving anyway",
			slog.Int("account", start))
	}

	r.writeCursor(ctx, (selected+1)%n)

	r.emit(metrics.Event{
		Type:      metrics.EventAccountSelected,
		Timestamp: time.Now(),
		AccountID: selected,
		Saturated: !found,
	})

	return r.pool.Get(selected), nil
}

// ReportFailure records a rate-limit signal for the account. Only 429 and
// 503 start a cooldown; every other status is a no-op.
func (r *Rotator) ReportFailure(ctx context.Context, acct account.Account, statusCode int) {
	if statusCode != http.StatusTooManyRequests && statusCode != http.StatusServiceUnavailable {
		return
	}

	r.tracker.RecordFailure(ctx, acct.ID())

	r.emit(metrics.Event{
		Type:       metrics.EventFailureReported,
		Timestamp:  time.Now(),
		AccountID:  acct.ID(),
		StatusCode: statusCode,
	})
}

// ReportSuccess lets the tracker reset the account's failure count once it
// is out of cooldown.
func (r *Rotator) ReportSuccess(acct account.Account) {
	r.tracker.RecordSuccess(acct.ID())
}

// IsAccountHealthy reports whether the account is outside any cooldown.
func (r *Rotator) IsAccountHealthy(ctx context.Context, accountID int) bool {
	return r.tracker.IsHealthy(ctx, accountID)
}

// AccountCount returns the size of the configured pool.
func (r *Rotator) AccountCount() int {
	return r.pool.Count()
}

// Accounts returns the configured accounts in stable order.
func (r *Rotator) Accounts() []account.Account {
	return r.pool.Accounts()
}

// Tracker exposes the health tracker for introspection surfaces.
func (r *Rotator) Tracker() *health.Tracker {
	return r.tracker
}

func (r *Rotator) readCursor(ctx context.Context, n int) int {
	value, foundCursor, err := r.store.Get(ctx, CursorKey)
	if err != nil {
		r.mutex.Lock()
		local := r.localCursor
		r.mutex.Unlock()

		r.logger.Warn("cursor read failed, using local cursor",
			slog.Int("cursor", local),
			slog.String("error", err.Error()))
		r.emit(metrics.Event{
			Type:      metrics.EventStoreError,
			Timestamp: time.Now(),
		})
		return local % n
	}

	if !foundCursor {
		return 0
	}

	cursor, err := strconv.Atoi(value)
	if err != nil || cursor < 0 {
		r.logger.Warn("invalid cursor value, starting from 0",
			slog.String("value", value))
		return 0
	}

	return cursor % n
}

func (r *Rotator) writeCursor(ctx context.Context, next int) {
	r.mutex.Lock()
	r.localCursor = next
	r.mutex.Unlock()

	// Awaited so the shared pointer stays reasonably fresh; concurrent
	// writers are last-write-wins and lost updates are tolerated.
	if err := r.store.Put(ctx, CursorKey, strconv.Itoa(next), 0); err != nil {
		r.logger.Warn("cursor write failed, keeping local cursor",
			slog.Int("cursor", next),
			slog.String("error", err.Error()))
		r.emit(metrics.Event{
			Type:      metrics.EventStoreError,
			Timestamp: time.Now(),
		})
	}
}

func (r *Rotator) emit(event metrics.Event) {
	if r.collector == nil {
		return
	}

	select {
	case r.collector.EventChannel() <- event:
	default:
	}
}
