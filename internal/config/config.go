package config

import (
	"os"
	"time"
)

type Config struct {
	// NATS configuration
	NatsURL            string
	NatsRequestSubject string
	NatsTimeout        time.Duration

	// Redis configuration
	RedisURL   string
	SessionTTL time.Duration

	// Anthropic configuration (intent classifier)
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicTimeout time.Duration

	// TheSportsDB configuration (fixture data)
	SportsDBBaseURL string
	SportsDBAPIKey  string
	SportsDBTimeout time.Duration

	// Service configuration
	ServiceName string
}

func Load() *Config {
	return &Config{
		// NATS settings
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsRequestSubject: getEnv("NATS_REQUEST_SUBJECT", "dialogue.turn"),
		NatsTimeout:        getDurationEnv("NATS_TIMEOUT", 30*time.Second),

		// Redis settings
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		// Anthropic settings
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicTimeout: getDurationEnv("ANTHROPIC_TIMEOUT", 30*time.Second),

		// TheSportsDB settings ("771766" is the public demo key)
		SportsDBBaseURL: getEnv("SPORTSDB_BASE_URL", "https://www.thesportsdb.com/api/v1/json"),
		SportsDBAPIKey:  getEnv("SPORTSDB_API_KEY", "771766"),
		SportsDBTimeout: getDurationEnv("SPORTSDB_TIMEOUT", 15*time.Second),

		// Service settings
		ServiceName: getEnv("SERVICE_NAME", "prembot-dialogue"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
