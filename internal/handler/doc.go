// Package handler implements the introspection HTTP endpoints for the
// account rotator. It reports pool size and per-account health without
// participating in account selection.
package handler
