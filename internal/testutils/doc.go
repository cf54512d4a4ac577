// Package testutils provides shared helpers for integration tests that
// need a real Postgres database. Tests check IsIntegrationTestEnvironment
// and skip when DATABASE_URL is not set; WithTx gives each test its own
// rolled-back transaction so tests stay isolated and parallel-safe.
package testutils
