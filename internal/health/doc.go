// Package health tracks per-account rate-limit cooldowns. State lives in a
// per-instance local cache backed by a shared key-value store, so a fleet of
// memory-isolated instances converges on the same view of which accounts are
// cooling down without any locking across instances.
package health
