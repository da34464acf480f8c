package health

import (
	"encoding/json"
	"strconv"
	"time"
)

// Record is the per-account health state. The same shape is kept in the local
// cache and, JSON-serialized, in the shared store under account_health_<id>.
// Timestamps are unix milliseconds so records stay readable by non-Go
// instances sharing the store.
type Record struct {
	AccountID       int   `json:"accountId"`
	IsRateLimited   bool  `json:"isRateLimited"`
	LastFailureTime int64 `json:"lastFailureTime"`
	FailureCount    int   `json:"failureCount"`
	CooldownEndsAt  int64 `json:"cooldownEndsAt"`
}

// CooldownActive reports whether the record's cooldown window is still open
// at the given instant.
func (r Record) CooldownActive(now time.Time) bool {
	return r.CooldownEndsAt > now.UnixMilli()
}

// CooldownRemaining returns how long the cooldown window stays open from the
// given instant. Non-positive when the window has already closed.
func (r Record) CooldownRemaining(now time.Time) time.Duration {
	return time.UnixMilli(r.CooldownEndsAt).Sub(now)
}

func (r Record) marshal() ([]byte, error) {
	return json.Marshal(r)
}

func unmarshalRecord(data string) (Record, error) {
	var rec Record
	err := json.Unmarshal([]byte(data), &rec)
	return rec, err
}

// Key returns the shared-store key for an account's health record.
func Key(accountID int) string {
	return "account_health_" + strconv.Itoa(accountID)
}
