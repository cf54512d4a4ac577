// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic, so user accounts and archived snapshots can be
// persisted without tying business rules to a specific database.
package store
