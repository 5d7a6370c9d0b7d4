// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Sink names accepted in NOTIFY_SINKS
const (
	SinkLog     = "log"
	SinkWebhook = "webhook"
	SinkRedis   = "redis"
	SinkEmail   = "email"
)

var knownSinks = []string{SinkLog, SinkWebhook, SinkRedis, SinkEmail}

// ErrMissingOwnerPassword is returned when OWNER_PASSWORD is unset
var ErrMissingOwnerPassword = errors.New("OWNER_PASSWORD is required")

// Config is the full process configuration
type Config struct {
	// Room
	RoomName   string  `env:"ROOM_NAME" envDefault:"RHL TOURNAMENT"`
	PlayerName string  `env:"PLAYER_NAME" envDefault:"RHL Bot"`
	MaxPlayers int     `env:"MAX_PLAYERS" envDefault:"16"`
	Public     bool    `env:"PUBLIC" envDefault:"true"`
	GeoCode    string  `env:"GEO_CODE" envDefault:"eg"`
	GeoLat     float64 `env:"GEO_LAT" envDefault:"30.0444"`
	GeoLon     float64 `env:"GEO_LON" envDefault:"31.2357"`
	TimeLimit  int     `env:"TIME_LIMIT" envDefault:"3"`
	ScoreLimit int     `env:"SCORE_LIMIT" envDefault:"3"`

	// Moderation
	OwnerPassword           string        `env:"OWNER_PASSWORD"`
	CommandPrefix           string        `env:"COMMAND_PREFIX" envDefault:"!"`
	DiscordInvite           string        `env:"DISCORD_SERVER_INVITE"`
	LogChat                 bool          `env:"LOG_CHAT" envDefault:"false"`
	TouchWindow             time.Duration `env:"TOUCH_WINDOW" envDefault:"5s"`
	TouchCapacity           int           `env:"TOUCH_CAPACITY" envDefault:"10"`
	ResetTouchesOnGameStart bool          `env:"RESET_TOUCHES_ON_GAME_START" envDefault:"false"`

	// Background tasks
	DiscordReminderInterval    time.Duration `env:"DISCORD_REMINDER_INTERVAL" envDefault:"3m"`
	AutoJoinPreventionInterval time.Duration `env:"AUTO_JOIN_PREVENTION_INTERVAL" envDefault:"1s"`
	HealthCheckInterval        time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`

	// Notifications
	NotifySinks        []string      `env:"NOTIFY_SINKS" envDefault:"log" envSeparator:","`
	NotifyQueueSize    int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
	DiscordWebhook     string        `env:"DISCORD_WEBHOOK"`
	WebhookCooldown    time.Duration `env:"WEBHOOK_COOLDOWN" envDefault:"1s"`
	WebhookMaxAttempts int           `env:"WEBHOOK_MAX_ATTEMPTS" envDefault:"3"`
	RedisURL           string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisChannel       string        `env:"REDIS_CHANNEL" envDefault:"notifications"`
	ResendAPIKey       string        `env:"RESEND_API_KEY"`
	EmailFrom          string        `env:"EMAIL_FROM"`
	EmailTo            []string      `env:"EMAIL_TO" envSeparator:","`
	EmailKinds         []string      `env:"EMAIL_KINDS" envDefault:"authority,moderation" envSeparator:","`

	// HTTP
	Port          int    `env:"PORT" envDefault:"5000"`
	SimulationAPI bool   `env:"SIMULATION_API" envDefault:"true"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the tags cannot express
func (c Config) Validate() error {
	if c.OwnerPassword == "" {
		return ErrMissingOwnerPassword
	}
	if c.MaxPlayers < 2 {
		return fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", c.MaxPlayers)
	}
	if c.TouchCapacity < 1 {
		return fmt.Errorf("TOUCH_CAPACITY must be positive, got %d", c.TouchCapacity)
	}
	if c.ScoreLimit < 0 || c.TimeLimit < 0 {
		return fmt.Errorf("SCORE_LIMIT and TIME_LIMIT must not be negative, got %d and %d", c.ScoreLimit, c.TimeLimit)
	}
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return errors.New("COMMAND_PREFIX must not be blank")
	}
	for _, s := range c.NotifySinks {
		if !slices.Contains(knownSinks, s) {
			return fmt.Errorf("NOTIFY_SINKS: unknown sink %q", s)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LOG_LEVEL to a slog level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
