// Package integration provides integration tests for seedsync.
// These tests run complete event batches through the application wiring against a
// stub of the platform GraphQL API, covering pagination, rate limiting, seed
// conflict resolution and sync status recording.
package integration
