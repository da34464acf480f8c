package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/account-rotator/internal/store"
)

// DefaultCooldown is the window an account stays unhealthy after a reported
// rate-limit failure.
const DefaultCooldown = 60 * time.Second

// Tracker keeps per-account cooldown state. Each process instance holds its
// own Tracker; instances learn about each other's failures through the shared
// store, local cache first so healthy-path checks stay off the network.
type Tracker struct {
	mutex    sync.Mutex
	records  map[int]*Record
	store    store.Store
	cooldown time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCooldown overrides the default cooldown window.
func WithCooldown(d time.Duration) Option {
	return func(t *Tracker) {
		t.cooldown = d
	}
}

// WithClock overrides the time source. Used by tests to simulate the cooldown
// window elapsing.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a Tracker backed by the given shared store.
func NewTracker(st store.Store, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		records:  make(map[int]*Record),
		store:    st,
		cooldown: DefaultCooldown,
		logger:   logger,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RecordFailure marks the account rate-limited for one cooldown window from
// now. The local cache is updated synchronously; the shared-store copy is
// published by a detached goroutine whose outcome is only logged, so a
// request that already failed pays no extra latency. A failure during an
// active cooldown restarts the window and keeps counting.
func (t *Tracker) RecordFailure(ctx context.Context, accountID int) {
	now := t.now()

	t.mutex.Lock()
	count := 1
	if prev, ok := t.records[accountID]; ok {
		count = prev.FailureCount + 1
	}

	rec := Record{
		AccountID:       accountID,
		IsRateLimited:   true,
		LastFailureTime: now.UnixMilli(),
		FailureCount:    count,
		CooldownEndsAt:  now.Add(t.cooldown).UnixMilli(),
	}
	t.records[accountID] = &rec
	t.mutex.Unlock()

	t.logger.Warn("account entered cooldown",
		slog.Int("account", accountID),
		slog.Int("failures", count),
		slog.Duration("cooldown", t.cooldown))

	// Detached: the caller never waits on the shared store. WithoutCancel so
	// a cancelled request context cannot abort the publication.
	go t.publish(context.WithoutCancel(ctx), rec)
}

func (t *Tracker) publish(ctx context.Context, rec Record) {
	remaining := rec.CooldownRemaining(t.now())
	if remaining <= 0 {
		return
	}

	data, err := rec.marshal()
	if err != nil {
		t.logger.Error("failed to serialize health record",
			slog.Int("account", rec.AccountID),
			slog.String("error", err.Error()))
		return
	}

	if err := t.store.Put(ctx, Key(rec.AccountID), string(data), remaining); err != nil {
		t.logger.Warn("failed to publish health record",
			slog.Int("account", rec.AccountID),
			slog.String("error", err.Error()))
		return
	}

	t.logger.Debug("published health record",
		slog.Int("account", rec.AccountID),
		slog.Duration("ttl", remaining))
}

// IsHealthy reports whether the account is outside any cooldown window. An
// unexpired local record answers false with no remote call. Otherwise one
// shared-store read detects cooldowns recorded by other instances; a store
// failure fails open. IsHealthy never returns an error.
func (t *Tracker) IsHealthy(ctx context.Context, accountID int) bool {
	now := t.now()

	t.mutex.Lock()
	if rec, ok := t.records[accountID]; ok && rec.CooldownActive(now) {
		t.mutex.Unlock()
		return false
	}
	t.mutex.Unlock()

	value, found, err := t.store.Get(ctx, Key(accountID))
	if err != nil {
		// Store unavailable: prefer serving with a possibly-limited account
		// over refusing to serve at all.
		t.logger.Warn("health read failed, assuming healthy",
			slog.Int("account", accountID),
			slog.String("error", err.Error()))
		return true
	}

	if found {
		remote, err := unmarshalRecord(value)
		if err != nil {
			t.logger.Warn("discarding unparsable health record",
				slog.Int("account", accountID),
				slog.String("error", err.Error()))
		} else if remote.CooldownActive(now) {
			// Another instance already saw this account rate-limited.
			t.adopt(remote)
			return false
		}
	}

	t.clearStale(accountID, now)
	return true
}

func (t *Tracker) adopt(rec Record) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	local, ok := t.records[rec.AccountID]
	if ok && local.CooldownEndsAt >= rec.CooldownEndsAt {
		return
	}

	t.records[rec.AccountID] = &rec
}

func (t *Tracker) clearStale(accountID int, now time.Time) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[accountID]
	if ok && rec.IsRateLimited && !rec.CooldownActive(now) {
		rec.IsRateLimited = false
	}
}

// RecordSuccess resets the failure count after a successful use, but only
// when no cooldown is active; success never shortens an open window.
func (t *Tracker) RecordSuccess(accountID int) {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[accountID]
	if !ok {
		return
	}

	if !rec.CooldownActive(now) && rec.FailureCount > 0 {
		rec.FailureCount = 0
		rec.IsRateLimited = false
	}
}

// Snapshot returns a copy of the local record for the account, if any. It
// says nothing about the shared-store copy.
func (t *Tracker) Snapshot(accountID int) (Record, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.records[accountID]
	if !ok {
		return Record{}, false
	}

	return *rec, true
}
