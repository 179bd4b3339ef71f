package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/magefree/menhir-server-go/internal/config"
	"github.com/magefree/menhir-server-go/internal/game/cards"
	"github.com/magefree/menhir-server-go/internal/game/rules"
	"github.com/magefree/menhir-server-go/internal/game/strategy"
	"github.com/magefree/menhir-server-go/internal/match"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath   = flag.String("config", "config/config.yaml", "path to configuration file")
	players      = flag.Int("players", 0, "number of participants (overrides config)")
	computers    = flag.Int("computers", 0, "number of computer participants (overrides config)")
	strategyName = flag.String("strategy", "", "computer strategy: "+strategyNames()+" (overrides config)")
	rounds       = flag.Int("rounds", 0, "number of rounds (overrides config)")
	seed         = flag.Uint64("seed", 0, "deal seed, 0 for random (overrides config)")
	catalogPath  = flag.String("catalog", "", "card catalog YAML file (overrides config)")
	version      = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting menhir",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("game aborted", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Game aborted: %v\n", err)
		os.Exit(1)
	}
}

func strategyNames() string {
	kinds := strategy.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	overrideConfig(cfg, set)
}

// overrideConfig applies the flags named in set. A --players value below the
// configured computer count, without --computers, makes every seat a
// computer.
func overrideConfig(cfg *config.Config, set map[string]bool) {
	if set["players"] {
		cfg.Game.Participants = *players
		if !set["computers"] && cfg.Game.Computers > cfg.Game.Participants {
			cfg.Game.Computers = max(cfg.Game.Participants, 0)
		}
	}
	if set["computers"] {
		cfg.Game.Computers = *computers
	}
	if set["strategy"] {
		cfg.Game.Strategy = *strategyName
	}
	if set["rounds"] {
		cfg.Game.Rounds = *rounds
	}
	if set["seed"] {
		cfg.Game.Seed = *seed
	}
	if set["catalog"] {
		cfg.Game.Catalog = *catalogPath
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	computer, err := strategy.New(strategy.Kind(cfg.Game.Strategy))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Game.Computers == cfg.Game.Participants {
		// Humans block on stdin; they keep the default interrupt handling.
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	bus := rules.NewEventBus()
	opts := []match.Option{match.WithEventBus(bus)}
	if cfg.Game.Catalog != "" {
		catalog, err := cards.LoadCatalog(cfg.Game.Catalog)
		if err != nil {
			return err
		}
		opts = append(opts, match.WithCatalog(catalog))
	}
	if cfg.Game.Seed != 0 {
		opts = append(opts, match.WithSeed(cfg.Game.Seed))
	}

	manager := match.NewManager(logger)
	m, err := manager.CreateMatch(cfg.Game.RoundConfig(0), cfg.Game.Rounds, opts...)
	if err != nil {
		return err
	}
	defer manager.RemoveMatch(m.ID())

	con := newConsole(os.Stdin, os.Stdout, computer)
	bus.Subscribe(con.printEvent)

	if err := m.Play(ctx, con.decide); err != nil {
		return err
	}

	snap := m.Snapshot()
	if m.NumRounds() > 1 {
		for _, result := range snap.Results {
			con.printStandings(fmt.Sprintf("Round %d", result.Number), result.Standings)
		}
	}
	con.printStandings("Final rankings", snap.Standings)
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Game output owns stdout.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
