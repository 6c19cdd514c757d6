package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DefaultBufSize = 100
	// DefaultReminderCron disables reminders unless configured.
	DefaultReminderCron = ""
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Weather  WeatherConfig  `json:"weather"`
	Exercise ExerciseConfig `json:"exercise"`
	Bot      BotConfig      `json:"bot"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom,omitempty"`
	Proxy     string   `json:"proxy,omitempty"`
}

type WeatherConfig struct {
	APIKey string `json:"apiKey"`
}

type ExerciseConfig struct {
	APIKey string `json:"apiKey"`
}

type BotConfig struct {
	// AdminID is the single identity allowed to run admin commands.
	AdminID string `json:"adminId,omitempty"`
	// DBPath overrides the default sqlite journal location. "off"
	// disables journaling entirely.
	DBPath string `json:"dbPath,omitempty"`
	// ReminderCron is a cron expression for daily logging reminders,
	// e.g. "0 10 * * *". Empty disables them.
	ReminderCron string `json:"reminderCron,omitempty"`
	// Translate routes food/exercise names through the translation
	// service before querying the English-only upstreams.
	Translate bool `json:"translate"`
}

func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Enabled: true},
		Bot: BotConfig{
			ReminderCron: DefaultReminderCron,
			Translate:    true,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".aquabot")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DBPath resolves the journal location: config override, or the default
// under the config dir. Empty means the default; "off" disables it.
func (c *Config) DBPath() string {
	if c.Bot.DBPath == "off" {
		return ""
	}
	if c.Bot.DBPath != "" {
		return c.Bot.DBPath
	}
	return filepath.Join(ConfigDir(), "data", "aquabot.db")
}

func LoadConfig() (*Config, error) {
	// .env is optional; ignore absence.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if token := os.Getenv("AQUABOT_TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		cfg.Weather.APIKey = key
	}
	if key := os.Getenv("API_NINJAS_KEY"); key != "" {
		cfg.Exercise.APIKey = key
	}
	if id := os.Getenv("AQUABOT_ADMIN_ID"); id != "" {
		cfg.Bot.AdminID = id
	}
	if path := os.Getenv("AQUABOT_DB_PATH"); path != "" {
		cfg.Bot.DBPath = path
	}
	if spec := os.Getenv("AQUABOT_REMINDER_CRON"); spec != "" {
		cfg.Bot.ReminderCron = spec
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
