// Package metrics provides real-time metrics collection for the account
// rotator.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Selection counts per account
//   - Rate-limit failures per account and their status codes
//   - Saturated selections (every account cooling down)
//   - Shared-store errors
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the selection path. Events are sent via buffered channels with non-blocking semantics
// to prevent performance degradation under load.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	// Emit events during selection
//	collector.EventChannel() <- metrics.Event{
//		Type:      metrics.EventAccountSelected,
//		AccountID: 2,
//	}
//
//	// Get metrics snapshot
//	snapshot := collector.Snapshot()
//
// The package provides thread-safe metrics storage using sync.RWMutex and supports
// graceful shutdown with event draining to prevent data loss.
package metrics
