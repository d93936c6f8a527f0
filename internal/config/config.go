package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	PriceFeed PriceFeedConfig `mapstructure:"price_feed" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs both access and refresh tokens. Minimum 32 characters.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token lifetime.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the refresh token lifetime.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// PriceFeedConfig contains settings for the quote poller and the alert
// evaluation worker pool.
type PriceFeedConfig struct {
	// ProviderURL is the base URL of the market-data REST provider.
	ProviderURL string `mapstructure:"provider_url" validate:"required,url"`

	// ProviderAPIKey authenticates requests to the provider. Empty for
	// providers with public quote endpoints.
	ProviderAPIKey string `mapstructure:"provider_api_key"`

	// PollIntervalSeconds is how often the feed fetches quotes for symbols
	// with pending alerts.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`

	// WorkerCount is the number of concurrent evaluation workers.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size of the in-memory evaluation queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
}
