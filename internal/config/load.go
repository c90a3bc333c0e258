package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and optionally a
// config file. Environment variables take precedence over values from
// config files. Returns a populated Config struct or an error if
// loading/validation fails.
//
// Environment variables use the LEXITRA_ prefix with underscores for
// nesting, e.g. LEXITRA_DATABASE_URL, LEXITRA_TRANSLATION_GEMINI_API_KEY.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEXITRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry
		// everything. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Empty defaults register the keys with viper so AutomaticEnv can
	// populate them during Unmarshal.
	v.SetDefault("database.url", "")

	v.SetDefault("translation.provider", "")
	v.SetDefault("translation.gemini_api_key", "")
	v.SetDefault("translation.openai_api_key", "")
	v.SetDefault("translation.gemini_model", "gemini-2.0-flash")
	v.SetDefault("translation.openai_model", "gpt-4o-mini")
	v.SetDefault("translation.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("translation.max_retries", 3)
	v.SetDefault("translation.retry_delay_seconds", 2)
	v.SetDefault("translation.request_timeout_seconds", 30)

	v.SetDefault("practice.default_max_cards", 20)
}
