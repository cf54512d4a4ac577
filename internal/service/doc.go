// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The central piece is the StudyService, which owns the registry of live
// study sessions. A session wraps a leitner.Box with an owner, a draw
// ledger, and a last-used timestamp; all box access is serialized per
// session. Sessions exist only in process memory and are evicted by a
// janitor goroutine once idle past the configured TTL. Durable state flows
// exclusively through the archive operations, which round-trip box
// snapshots to Postgres via the snapshot codec and the store layer.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries with store.RunInTransaction where an
// operation spans reads and writes. Expected failure conditions surface as
// sentinel errors for errors.Is checks; the API layer maps them to HTTP
// status codes.
package service
