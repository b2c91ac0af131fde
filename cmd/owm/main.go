package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Seeyong/pyowm/internal/app"
	"github.com/Seeyong/pyowm/internal/cli"
	"github.com/Seeyong/pyowm/internal/config"
	"github.com/Seeyong/pyowm/internal/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "owm: load config: %v\n", err)
		return cli.ExitFailure
	}

	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "owm: init logger: %v\n", err)
		return cli.ExitFailure
	}
	defer logger.Close()

	logger.InfoObj("owm starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version, buildTime)
	root := cli.NewRootCommand(cfg, func(c *config.Config) (*app.App, error) {
		return app.New(c, log, nil)
	})

	if err := root.ExecuteContext(ctx); err != nil {
		logger.ErrorObj("command failed", "error", err.Error())
		fmt.Fprintf(os.Stderr, "owm: %v\n", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
