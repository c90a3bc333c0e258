package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Translation TranslationConfig `mapstructure:"translation" validate:"required"`
	Practice    PracticeConfig    `mapstructure:"practice" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// TranslationConfig contains the translation backend settings.
//
// Provider selects the preferred (primary) provider; the other
// configured provider, if any, becomes the secondary. Credentials are
// optional: with no credential configured the backend runs on its
// local heuristic alone. The configuration is resolved once at startup
// and handed to the backend constructor by value; changing it requires
// reconstructing the backend.
type TranslationConfig struct {
	Provider              string `mapstructure:"provider"                validate:"omitempty,oneof=gemini openai"`
	GeminiAPIKey          string `mapstructure:"gemini_api_key"`
	GeminiModel           string `mapstructure:"gemini_model"            validate:"required"`
	OpenAIAPIKey          string `mapstructure:"openai_api_key"`
	OpenAIModel           string `mapstructure:"openai_model"            validate:"required"`
	OpenAIBaseURL         string `mapstructure:"openai_base_url"         validate:"required,url"`
	MaxRetries            int    `mapstructure:"max_retries"             validate:"min=0,max=10"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds"     validate:"min=1,max=60"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"min=1,max=300"`
}

// PracticeConfig contains practice-session defaults.
type PracticeConfig struct {
	DefaultMaxCards int `mapstructure:"default_max_cards" validate:"required,gt=0,lte=500"`
}
