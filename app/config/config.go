package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log     Log     `yaml:"log"`
	HTTP    HTTP    `yaml:"http"`
	Dataset Dataset `yaml:"dataset"`
	Session Session `yaml:"session"`
	Reply   Reply   `yaml:"reply"`
	Queue   Queue   `yaml:"queue"`
	Yandex  Yandex  `yaml:"yandex"`
}

type HTTP struct {
	// Listen address of the HTTP API
	Addr string `yaml:"addr" example:":8080" validate:"required"`
}

type Dataset struct {
	// Path to the intent dataset CSV file
	Path string `yaml:"path" example:"data/responses_dataset.csv"`
	// Intent resolver backend: classifier or neighbor
	Resolver string `yaml:"resolver" example:"classifier" validate:"oneof=classifier neighbor"`
}

type Session struct {
	// Delay after session start before the farewell message is sent
	InactivityTimeout time.Duration `yaml:"inactivity_timeout" example:"2m" validate:"gt=0"`
	// Restart the inactivity timer on every turn instead of firing once after start
	ResetTimerOnActivity bool `yaml:"reset_timer_on_activity" example:"false"`
}

type Reply struct {
	// Prefix replies with the sentiment analysis line
	ShowAnalysis bool `yaml:"show_analysis" example:"false"`
	// Seed of the reply variant picker, 0 means random
	Seed uint64 `yaml:"seed" example:"0"`
}

type Queue struct {
	// Maximum number of pending turns
	Size int `yaml:"size" example:"64" validate:"gt=0"`
}

type Yandex struct {
	SpeechKit SpeechKit `yaml:"speech_kit"`
}

type SpeechKit struct {
	// Path to the service account key, speech recognition is disabled when empty
	KeyFile string `yaml:"key_file" example:"service-account-key.json"`
	// Recognition language
	Language string `yaml:"language" example:"es-ES" validate:"required"`
	// Sample rate of the incoming LINEAR16 PCM audio
	SampleRate int64 `yaml:"sample_rate" example:"16000" validate:"gt=0"`
}

type Log struct {
	// Minimal log level: debug, info, warn or error
	Level string `yaml:"level" example:"debug" validate:"omitempty,oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

// Load reads the YAML config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to load .env file: %w", err)
	}

	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&result)
	applyEnv(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "data/responses_dataset.csv"
	}
	if cfg.Dataset.Resolver == "" {
		cfg.Dataset.Resolver = "classifier"
	}
	if cfg.Session.InactivityTimeout == 0 {
		cfg.Session.InactivityTimeout = 120 * time.Second
	}
	if cfg.Queue.Size == 0 {
		cfg.Queue.Size = 64
	}
	if cfg.Yandex.SpeechKit.Language == "" {
		cfg.Yandex.SpeechKit.Language = "es-ES"
	}
	if cfg.Yandex.SpeechKit.SampleRate == 0 {
		cfg.Yandex.SpeechKit.SampleRate = 16000
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PULSETT_TELEGRAM_TOKEN"); v != "" {
		cfg.Log.Telegram.Token = v
	}
	if v := os.Getenv("PULSETT_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Log.Telegram.ChatID = v
	}
	if v := os.Getenv("PULSETT_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("PULSETT_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
}
