// Package logger wires log/slog into the application: Setup builds the
// JSON handler from server configuration and installs it as the default,
// the context helpers carry a request-scoped logger and request ID through
// call chains, and the test helpers capture structured output for
// assertions.
package logger
