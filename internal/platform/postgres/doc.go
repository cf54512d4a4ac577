// Package postgres provides PostgreSQL-backed implementations of the
// storage interfaces defined in the internal/store package. It handles
// query execution, error mapping, and data conversion between domain
// entities and database records for users and archived snapshots.
package postgres
