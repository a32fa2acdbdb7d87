package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/terraincognita07/cyclemark/internal/models"
)

const (
	DriverSQLite = "sqlite"
	DriverDiskv  = "diskv"

	placeholderSecretKey = "change_me_in_production"
	minSecretKeyLength   = 32

	defaultReminderCron   = "0 9 * * *"
	defaultReminderDays   = 2
	configFileName        = "cyclemark"
	configPathOverrideEnv = "CYCLEMARK_CONFIG_PATH"
)

var (
	ErrSecretKeyMissing       = errors.New("secret key is not set")
	ErrSecretKeyTooShort      = errors.New("secret key is too short")
	ErrSecretKeyPlaceholder   = errors.New("secret key still uses the placeholder value")
	ErrOwnerPassphraseMissing = errors.New("owner passphrase hash is not set")
)

// Config is the resolved application configuration. Values come from, in
// order of precedence: CYCLEMARK_* environment variables (a .env file is
// loaded first when present), an optional cyclemark.yaml, then defaults.
type Config struct {
	DBDriver  string
	DBPath    string
	DiskvPath string
	Port      string
	TZ        string
	Location  *time.Location

	SecretKey           string
	OwnerPassphraseHash string

	LutealDays            int
	DefaultPeriodDuration int

	LogLevel    string
	Environment string

	TelegramBotToken   string
	TelegramChatID     int64
	ReminderCron       string
	PeriodReminderDays int
	NotifyOvulation    bool
}

func Load() (*Config, error) {
	// Missing .env is fine; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetEnvPrefix("CYCLEMARK")
	v.AutomaticEnv()

	if override := strings.TrimSpace(os.Getenv(configPathOverrideEnv)); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", filepath.Join("data", "cyclemark.db"))
	v.SetDefault("diskv_path", filepath.Join("data", "records"))
	v.SetDefault("port", "8080")
	v.SetDefault("tz", "UTC")
	v.SetDefault("secret_key", "")
	v.SetDefault("owner_passphrase_hash", "")
	v.SetDefault("luteal_days", models.DefaultLutealDays)
	v.SetDefault("default_period_duration", models.DefaultPeriodDurationDays)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_chat_id", int64(0))
	v.SetDefault("reminder_cron", defaultReminderCron)
	v.SetDefault("period_reminder_days", defaultReminderDays)
	v.SetDefault("notify_ovulation", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:              strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		DBPath:                strings.TrimSpace(v.GetString("db_path")),
		DiskvPath:             strings.TrimSpace(v.GetString("diskv_path")),
		Port:                  strings.TrimSpace(v.GetString("port")),
		TZ:                    strings.TrimSpace(v.GetString("tz")),
		SecretKey:             v.GetString("secret_key"),
		OwnerPassphraseHash:   strings.TrimSpace(v.GetString("owner_passphrase_hash")),
		LutealDays:            v.GetInt("luteal_days"),
		DefaultPeriodDuration: v.GetInt("default_period_duration"),
		LogLevel:              strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		Environment:           strings.ToLower(strings.TrimSpace(v.GetString("environment"))),
		TelegramBotToken:      strings.TrimSpace(v.GetString("telegram_bot_token")),
		TelegramChatID:        v.GetInt64("telegram_chat_id"),
		ReminderCron:          strings.TrimSpace(v.GetString("reminder_cron")),
		PeriodReminderDays:    v.GetInt("period_reminder_days"),
		NotifyOvulation:       v.GetBool("notify_ovulation"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			return fmt.Errorf("db_path is required for the %s driver", DriverSQLite)
		}
	case DriverDiskv:
		if cfg.DiskvPath == "" {
			return fmt.Errorf("diskv_path is required for the %s driver", DriverDiskv)
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", cfg.DBDriver)
	}

	location, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return fmt.Errorf("invalid tz %q: %w", cfg.TZ, err)
	}
	cfg.Location = location

	if cfg.LutealDays < models.MinLutealDays || cfg.LutealDays > models.MaxLutealDays {
		return fmt.Errorf("luteal_days must be between %d and %d, got %d", models.MinLutealDays, models.MaxLutealDays, cfg.LutealDays)
	}
	if cfg.DefaultPeriodDuration < 0 || cfg.DefaultPeriodDuration > models.MaxPeriodDurationDays {
		return fmt.Errorf("default_period_duration must be between 0 and %d, got %d", models.MaxPeriodDurationDays, cfg.DefaultPeriodDuration)
	}
	if cfg.PeriodReminderDays < 0 {
		return fmt.Errorf("period_reminder_days must not be negative, got %d", cfg.PeriodReminderDays)
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return errors.New("telegram_chat_id is required when telegram_bot_token is set")
	}
	return nil
}

// RequireServerSecrets checks the settings only the HTTP server and token
// issuing need.
func (cfg *Config) RequireServerSecrets() error {
	if err := ValidateSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if cfg.OwnerPassphraseHash == "" {
		return ErrOwnerPassphraseMissing
	}
	return nil
}

func ValidateSecretKey(secretKey string) error {
	trimmed := strings.TrimSpace(secretKey)
	switch {
	case trimmed == "":
		return ErrSecretKeyMissing
	case trimmed == placeholderSecretKey:
		return ErrSecretKeyPlaceholder
	case len(trimmed) < minSecretKeyLength:
		return fmt.Errorf("%w: need at least %d characters", ErrSecretKeyTooShort, minSecretKeyLength)
	}
	return nil
}

// TelegramEnabled reports whether reminders should go to Telegram.
func (cfg *Config) TelegramEnabled() bool {
	return cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0
}
