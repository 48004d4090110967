/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/inventory-agent/pkg/config"
	"github.com/NVIDIA/inventory-agent/pkg/serializer"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the agent configuration file",
		Commands: []*cli.Command{
			configInitCmd(),
			configValidateCmd(),
			configShowCmd(),
		},
	}
}

func configInitCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a configuration file populated with defaults",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String(configFlagName)
			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "wrote default configuration to %s\n", path)
			return nil
		},
	}
}

func configValidateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Report invalid values in the configuration file",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String(configFlagName)
			problems, err := config.NewLoader(path).Check()
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				return errors.New("invalid configuration:\n  " + strings.Join(problems, "\n  "))
			}
			fmt.Fprintf(out(cmd), "%s is valid\n", path)
			return nil
		},
	}
}

func configShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the effective configuration",
		Description: `Prints the configuration after environment overrides and normalization.
The auth token is masked unless --show-secrets is set.`,
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "show-secrets",
				Usage: "print the auth token in clear text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			w := serializer.NewWriter(f, out(cmd))
			defer w.Close()
			return w.Serialize(ctx, cfg.Map(cmd.Bool("show-secrets")))
		},
	}
}
