// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var ErrMissingToken = errors.New("no bot token: set TOKEN or [secrets] TOKEN in the config file")

type Config struct {
	Token            string        `env:"TOKEN"`
	CommandPrefix    string        `env:"COMMAND_PREFIX"    envDefault:"!"`
	ConfFile         string        `env:"BOT_CONF"          envDefault:"bot.conf"`
	StoragePath      string        `env:"STORAGE_PATH"      envDefault:"datastore.json"`
	AnnounceFile     string        `env:"ANNOUNCE_FILE"     envDefault:"Dinkster.ogg"`
	AnnounceDuration time.Duration `env:"ANNOUNCE_DURATION" envDefault:"10s"`
	QueueLimit       int           `env:"QUEUE_LIMIT"       envDefault:"0"`
	YouTubeProxy     string        `env:"YOUTUBE_PROXY"`
	SearchRate       float64       `env:"SEARCH_RATE"       envDefault:"2"`
	StatusAddr       string        `env:"STATUS_ADDR"`
	LogLevel         string        `env:"LOG_LEVEL"         envDefault:"info"`
	LogFile          string        `env:"LOG_FILE"`
}

// Load reads envFile (a missing file is fine), then the environment. The
// token falls back to the [secrets] section of ConfFile.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Info().Str("component", "config").Str("file", envFile).Msg("no env file found, falling back to system environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Token == "" {
		token, err := tokenFromFile(cfg.ConfFile)
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "!"
	}
	if cfg.QueueLimit < 0 {
		return nil, fmt.Errorf("QUEUE_LIMIT must not be negative, got %d", cfg.QueueLimit)
	}
	if cfg.SearchRate <= 0 {
		return nil, fmt.Errorf("SEARCH_RATE must be positive, got %v", cfg.SearchRate)
	}
	return &cfg, nil
}

func tokenFromFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return f.Section("secrets").Key("TOKEN").String(), nil
}
