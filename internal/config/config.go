package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Discord   DiscordConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

// DiscordConfig covers both the OAuth2 application credentials and the
// bot token used for by-id lookups.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BotToken     string
	APIBaseURL   string
	OAuthBaseURL string
	Timeout      time.Duration
}

// BackendConfig points at the internal bot backend that serves per-user
// account data.
type BackendConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type SessionConfig struct {
	StateSecret  string
	CookieMaxAge time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("DISCORD_API_BASE", "https://discord.com/api/v10")
	viper.SetDefault("DISCORD_OAUTH_BASE", "https://discord.com/api/oauth2")
	viper.SetDefault("DISCORD_TIMEOUT", 10)
	viper.SetDefault("BACKEND_TIMEOUT", 5)
	viper.SetDefault("SESSION_COOKIE_MAX_AGE_HOURS", 168)
	viper.SetDefault("CACHE_TTL_SECONDS", 30)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("SERVER_ENVIRONMENT"),
		},
		Discord: DiscordConfig{
			ClientID:     viper.GetString("DISCORD_CLIENT_ID"),
			ClientSecret: viper.GetString("DISCORD_CLIENT_SECRET"),
			RedirectURI:  viper.GetString("DISCORD_REDIRECT_URI"),
			BotToken:     viper.GetString("DISCORD_BOT_TOKEN"),
			APIBaseURL:   viper.GetString("DISCORD_API_BASE"),
			OAuthBaseURL: viper.GetString("DISCORD_OAUTH_BASE"),
			Timeout:      time.Duration(viper.GetInt("DISCORD_TIMEOUT")) * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_API_URL"),
			Token:   viper.GetString("BACKEND_API_TOKEN"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
			CacheTTL: time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Session: SessionConfig{
			StateSecret:  viper.GetString("STATE_SECRET"),
			CookieMaxAge: time.Duration(viper.GetInt("SESSION_COOKIE_MAX_AGE_HOURS")) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.Discord.ClientID == "" {
		return nil, fmt.Errorf("environment variable DISCORD_CLIENT_ID is required")
	}
	if cfg.Discord.ClientSecret == "" {
		return nil, fmt.Errorf("environment variable DISCORD_CLIENT_SECRET is required")
	}
	if cfg.Discord.RedirectURI == "" {
		cfg.Discord.RedirectURI = fmt.Sprintf("http://localhost:%s/auth/callback", cfg.Server.Port)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with the production cookie policy.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
