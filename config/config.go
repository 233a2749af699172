package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/minaorangina/nocturne/game"
	"github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is read from the environment
type Config struct {
	Port        int           `env:"PORT,default=3000"`
	StaticDir   string        `env:"STATIC_DIR,default=./public"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`
	TurnTimeout time.Duration `env:"TURN_TIMEOUT,default=60s"`
	PassDelay   time.Duration `env:"PASS_DELAY,default=1500ms"`
	MaxSeats    int           `env:"MAX_SEATS,default=5"`
}

// Load reads the environment, after loading any of the given env files
// that exist. With no files it looks for .env.
// Variables already set are never overridden by a file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d is out of range", ErrInvalidConfig, c.Port)
	}
	if c.MaxSeats < 2 || c.MaxSeats > game.MaxSeatsLimit {
		return fmt.Errorf("%w: MAX_SEATS must be between 2 and %d, got %d", ErrInvalidConfig, game.MaxSeatsLimit, c.MaxSeats)
	}
	if c.TurnTimeout < 0 || c.PassDelay < 0 {
		return fmt.Errorf("%w: durations cannot be negative", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Addr is the address to listen on
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Level is the configured log level
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// GameOpts applies the config to a game's defaults
func (c Config) GameOpts() game.Opts {
	opts := game.DefaultOpts()
	opts.TurnTimeout = c.TurnTimeout
	opts.PassDelay = c.PassDelay
	opts.MaxSeats = c.MaxSeats
	return opts
}
