// Package store defines the shared key-value contract used to coordinate
// health records and the rotation cursor across process instances, with a
// Redis implementation for deployments and an in-process implementation for
// single-instance use and tests.
package store
