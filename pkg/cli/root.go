/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/inventory-agent/pkg/logging"
)

const (
	name           = "inventory"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Collect host inventory and report it to a collection server",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `Gathers system, hardware, software and network facts from this host and
delivers them to the configured collection server.

Run "inventory run" as a service for scheduled reporting, or use the
one-shot commands below.`,
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
		},
		Before: initLogger,
		Commands: []*cli.Command{
			runCmd(),
			collectCmd(),
			sendCmd(),
			testConnectionCmd(),
			scheduleCmd(),
			configCmd(),
		},
	}
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog once flags are parsed so --log-level applies to
// every command.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String(logLevelFlagName))
	return ctx, nil
}
