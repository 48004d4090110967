/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/inventory-agent/pkg/api"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the agent in service mode",
		Description: `Starts the reporting scheduler and the local control server and blocks
until interrupted. Intended to run under systemd (Type=notify).`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := api.Options{
				ConfigPath: cmd.String(configFlagName),
				Version:    version,
			}
			if cmd.IsSet(logLevelFlagName) {
				opts.LogLevel = cmd.String(logLevelFlagName)
			}
			return api.Run(ctx, opts)
		},
	}
}
