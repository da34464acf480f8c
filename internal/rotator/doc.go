// Package rotator implements shared-cursor round-robin selection over the
// account pool. The cursor is a single key in the shared store, advanced
// last-write-wins, so independent instances continue one rotation instead of
// each starting their own.
package rotator
