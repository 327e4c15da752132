package main

import (
	"os"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/adapter/cli"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/config"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logger := observability.NewLoggerFor(cfg.AppEnv, cfg.LogLevel)
	cli.SetLogger(logger)

	if err := cli.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
