package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// History backends selectable with fortyone_history_backend.
const (
	HistoryNone     = "none"
	HistoryStorage  = "storage"
	HistoryPostgres = "postgres"
)

// GameConfig holds table pacing and the wiring of optional collaborators.
type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`

	BotsEnabled        bool `json:"bots_enabled"`
	BotMinDelaySeconds int  `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int  `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	BotLevel                string `json:"bot_level"`

	// TicketSecret signs rejoin tickets. Tickets are disabled when empty.
	TicketSecret     string `json:"ticket_secret"`
	TicketTTLMinutes int    `json:"ticket_ttl_minutes"`

	// RedisAddr enables the shared session store. Sessions stay in memory when empty.
	RedisAddr         string `json:"redis_addr"`
	SessionTTLMinutes int    `json:"session_ttl_minutes"`

	HistoryBackend    string `json:"history_backend"`
	PostgresDSN       string `json:"postgres_dsn"`
	BotIdentitiesPath string `json:"bot_identities_path"`
}

// Defaults returns the configuration used when no file is loaded.
func Defaults() GameConfig {
	return GameConfig{
		TurnDurationSeconds:     30,
		BotsEnabled:             true,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		BotAutoFillDelaySeconds: 5,
		BotLevel:                "medium",
		TicketTTLMinutes:        120,
		SessionTTLMinutes:       180,
		HistoryBackend:          HistoryStorage,
		BotIdentitiesPath:       "data/bot_identities.json",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Parse decodes a config file over the defaults and checks it.
func Parse(data []byte) (GameConfig, error) {
	c := Defaults()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// GetGameConfig returns the global game configuration, or the defaults when
// none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return *cfg
}

// Validate rejects settings the match handler cannot run with.
func (c GameConfig) Validate() error {
	if c.TurnDurationSeconds <= 0 {
		return fmt.Errorf("turn_duration_seconds must be positive, got %d", c.TurnDurationSeconds)
	}
	if c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return fmt.Errorf("bot delay range [%d,%d] is invalid", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	switch c.HistoryBackend {
	case HistoryNone, HistoryStorage:
	case HistoryPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres history backend needs postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown history backend %q", c.HistoryBackend)
	}
	return nil
}

// TurnDuration is the time a player has to act before the fallback plays.
func (c GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TurnDurationSeconds) * time.Second
}

func (c GameConfig) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLMinutes) * time.Minute
}

func (c GameConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// WithEnv applies the Nakama runtime environment overrides. Malformed numbers
// are ignored.
func (c GameConfig) WithEnv(env map[string]string) GameConfig {
	if val, ok := env["fortyone_bots_enabled"]; ok {
		c.BotsEnabled = val == "true"
	}
	intVar := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
			}
		}
	}
	intVar("fortyone_turn_duration_sec", &c.TurnDurationSeconds)
	intVar("fortyone_bot_min_delay_sec", &c.BotMinDelaySeconds)
	intVar("fortyone_bot_max_delay_sec", &c.BotMaxDelaySeconds)
	intVar("fortyone_bot_auto_fill_delay_sec", &c.BotAutoFillDelaySeconds)
	if val, ok := env["fortyone_bot_level"]; ok {
		c.BotLevel = val
	}
	if val, ok := env["fortyone_ticket_secret"]; ok {
		c.TicketSecret = val
	}
	if val, ok := env["fortyone_redis_addr"]; ok {
		c.RedisAddr = val
	}
	if val, ok := env["fortyone_history_backend"]; ok {
		c.HistoryBackend = val
	}
	if val, ok := env["fortyone_postgres_dsn"]; ok {
		c.PostgresDSN = val
	}
	return c
}
