package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL string
	SocketURL  string

	// TokenStore selects the credential backend: "file" or "redis".
	TokenStore      string
	CredentialsPath string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
}

func Load() (*Config, error) {
	viper.SetConfigName("blogctl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "blogctl"))
	}

	viper.AutomaticEnv()
	for _, key := range []string{
		"API_BASE_URL", "SOCKET_URL",
		"TOKEN_STORE", "CREDENTIALS_PATH",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
		"REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"LOG_LEVEL",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("TOKEN_STORE", "file")
	viper.SetDefault("REDIS_PREFIX", "blogctl")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	apiURL := viper.GetString("API_BASE_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is not set")
	}

	credPath := viper.GetString("CREDENTIALS_PATH")
	if credPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("CREDENTIALS_PATH is not set and no user config dir: %w", err)
		}
		credPath = filepath.Join(dir, "blogctl", "credentials.json")
	}

	store := viper.GetString("TOKEN_STORE")
	if store != "file" && store != "redis" {
		return nil, fmt.Errorf("TOKEN_STORE must be file or redis, got %q", store)
	}
	if store == "redis" && viper.GetString("REDIS_ADDRESS") == "" {
		return nil, fmt.Errorf("REDIS_ADDRESS is required for the redis token store")
	}

	return &Config{
		APIBaseURL:      apiURL,
		SocketURL:       viper.GetString("SOCKET_URL"),
		TokenStore:      store,
		CredentialsPath: credPath,
		RedisAddress:    viper.GetString("REDIS_ADDRESS"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		RedisDB:         viper.GetInt("REDIS_DB"),
		RedisPrefix:     viper.GetString("REDIS_PREFIX"),
		RequestTimeout:  viper.GetDuration("REQUEST_TIMEOUT"),
		RateLimitRPS:    viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  viper.GetInt("RATE_LIMIT_BURST"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
	}, nil
}
