package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Add other server settings as needed (e.g., timeouts)
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// Add other DB settings as needed (e.g., pool size)
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// BCryptCost controls the cost factor for password hashing.
	// Valid range is 4..31; higher is slower and more resistant to
	// brute force. Tests use the minimum to stay fast.
	BCryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`

	// Token lifetimes are expressed in minutes so they can be set from
	// plain integer env vars.
	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig contains settings for in-memory study sessions.
type StudyConfig struct {
	// SessionTTLMinutes is how long a session may sit idle before the
	// janitor evicts it.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"required,gt=0"`

	// SweepIntervalMinutes is how often the janitor scans for idle
	// sessions.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"required,gt=0"`
}
