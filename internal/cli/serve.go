package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/api"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/store"
)

type serveCmd struct {
	addr      string
	autostart bool
	noStore   bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve a game over HTTP and websocket" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>] [-autostart] [-no-store]

  Runs one game session behind an HTTP API. Snapshot routes use Redis
  and are disabled when it cannot be reached.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (default from config)")
	f.BoolVar(&c.autostart, "autostart", false, "start the market immediately")
	f.BoolVar(&c.noStore, "no-store", false, "do not connect to Redis")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, status := loadConfig()
	if cfg == nil {
		return status
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snapshots store.SnapshotStore
	if !c.noStore {
		rs, err := dialStore(ctx, cfg)
		if err != nil {
			logger.Warn("snapshot store unavailable, snapshot routes disabled", zap.Error(err))
		} else {
			defer rs.Close()
			snapshots = rs
		}
	}

	g := game.NewGame(cfg.GameConfig(), logger)
	defer g.Close()
	if c.autostart {
		g.Start()
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Addr = cfg.HTTP.Addr
	if c.addr != "" {
		apiCfg.Addr = c.addr
	}
	srv := api.NewServer(apiCfg, g, snapshots, logger)
	defer srv.Close()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("shutdown complete")
	return subcommands.ExitSuccess
}
