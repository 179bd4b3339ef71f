// Package config loads runtime settings from an optional YAML file and
// MENHIR_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/magefree/menhir-server-go/internal/game"
	"github.com/magefree/menhir-server-go/internal/game/strategy"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MENHIR_GAME_ROUNDS.
const EnvPrefix = "MENHIR"

// Config is the complete runtime configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig describes the roster and the rules of each round.
type GameConfig struct {
	Participants      int    `mapstructure:"participants"`
	Computers         int    `mapstructure:"computers"`
	Strategy          string `mapstructure:"strategy"`
	Rounds            int    `mapstructure:"rounds"`
	Seed              uint64 `mapstructure:"seed"`
	Catalog           string `mapstructure:"catalog"`
	CardsInHand       int    `mapstructure:"cards_in_hand"`
	AlliedCardsInHand int    `mapstructure:"allied_cards_in_hand"`
	InitialSmallUnits int    `mapstructure:"initial_small_units"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RoundConfig converts the game settings into the configuration of the
// numbered round.
func (g GameConfig) RoundConfig(number int) game.RoundConfig {
	return game.RoundConfig{
		Participants:      g.Participants,
		Computers:         g.Computers,
		CardsInHand:       g.CardsInHand,
		AlliedCardsInHand: g.AlliedCardsInHand,
		InitialSmallUnits: g.InitialSmallUnits,
		Number:            number,
	}
}

// Load reads the configuration. An empty path or a missing file leaves the
// defaults in place; environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.participants", 4)
	v.SetDefault("game.computers", 3)
	v.SetDefault("game.strategy", string(strategy.KindHarass))
	v.SetDefault("game.rounds", 1)
	v.SetDefault("game.seed", uint64(0))
	v.SetDefault("game.catalog", "")
	v.SetDefault("game.cards_in_hand", game.CardsInHand)
	v.SetDefault("game.allied_cards_in_hand", game.AlliedCardsInHand)
	v.SetDefault("game.initial_small_units", game.InitialSmallUnits)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

// Validate checks every setting and names the offending key.
func (c *Config) Validate() error {
	if err := c.Game.RoundConfig(1).Validate(); err != nil {
		var cfgErr *game.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("game.%s: %w", cfgErr.Field, err)
		}
		return err
	}
	if c.Game.Rounds < 1 {
		return fmt.Errorf("game.rounds must be at least 1, got %d", c.Game.Rounds)
	}
	if _, err := strategy.New(strategy.Kind(c.Game.Strategy)); err != nil {
		return fmt.Errorf("game.strategy: %w", err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
