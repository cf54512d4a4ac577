// Package leitner implements the compartment scheduler at the heart of the
// application: a Leitner box with N ordered compartments, a weighted draw
// policy, a bounded anti-repeat history, and promote/demote transitions
// between adjacent compartments.
//
// A Box is not safe for concurrent use. Draw, Promote, Demote, Snapshot and
// Restore form a strict request/response sequence driven by one reviewer at
// a time; callers that share a Box across goroutines own the locking.
package leitner
