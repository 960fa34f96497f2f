// Package cli implements the stocksurge command line.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/config"
	"github.com/zappabad/stocksurge/internal/logging"
	"github.com/zappabad/stocksurge/internal/store"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&playCmd{}, "game")
	c.Register(&serveCmd{}, "game")
	c.Register(&simulateCmd{}, "game")

	c.Register(&saveCmd{}, "snapshots")
	c.Register(&loadCmd{}, "snapshots")
}

// as a CLI application, it has a very short lived lifecycle, so global flags are fine.

var configFile = flag.String("config", "", "Path to a config file (default: ./stocksurge.yaml when present)")

func loadConfig() (*config.Config, subcommands.ExitStatus) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return cfg, subcommands.ExitSuccess
}

// newLogger builds the logger from config. toFile forces file output, for
// commands that own the terminal.
func newLogger(cfg *config.Config, toFile bool) (*zap.Logger, error) {
	opts := logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development}
	switch {
	case cfg.Log.File != "":
		opts.OutputPaths = []string{cfg.Log.File}
	case toFile:
		opts.OutputPaths = []string{"stocksurge.log"}
	}
	return logging.New(opts)
}

func dialStore(ctx context.Context, cfg *config.Config) (*store.RedisStore, error) {
	return store.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
}
