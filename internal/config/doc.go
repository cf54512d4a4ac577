// Package config handles configuration loading, parsing, and validation.
// Values come from defaults, an optional config file, and LERNBOX_-prefixed
// environment variables, with env vars taking precedence. It provides
// type-safe access to application settings needed by different components
// while keeping configuration details separate from business logic.
package config
