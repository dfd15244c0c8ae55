// Package main is the entry point for the qcmd CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/danielolaszy/qcmd/cmd"
	"github.com/danielolaszy/qcmd/internal/logging"
)

// main loads .env, executes the root command and exits non-zero on failure.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.Debug("starting qcmd", "version", "1.0.0")

	if err := cmd.Execute(ctx); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
