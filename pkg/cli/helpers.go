/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/inventory-agent/pkg/agent"
	"github.com/NVIDIA/inventory-agent/pkg/config"
	"github.com/NVIDIA/inventory-agent/pkg/serializer"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
	outputFlagName   = "output"
	formatFlagName   = "format"
)

// Flags are built per command tree: urfave/cli keeps parsed values on the
// flag itself.

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    configFlagName,
		Aliases: []string{"c"},
		Usage:   "path to the agent configuration file",
		Sources: cli.EnvVars("INVENTORY_CONFIG"),
		Value:   config.DefaultPath,
	}
}

func logLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    logLevelFlagName,
		Usage:   "log level (debug, info, warn, error)",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "warn",
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    outputFlagName,
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    formatFlagName,
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
		Value:   string(serializer.FormatJSON),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String(formatFlagName))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// newWriter writes to --output when set, else to the command's writer.
func newWriter(cmd *cli.Command, f serializer.Format) *serializer.Writer {
	if path := cmd.String(outputFlagName); path != "" {
		return serializer.NewFileWriterOrStdout(f, path)
	}
	return serializer.NewWriter(f, out(cmd))
}

func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return cmd.Writer
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(configFlagName))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAgent builds an agent for one-shot commands. Its scheduler is never
// started.
func newAgent(cmd *cli.Command) (*agent.Agent, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return agent.New(cfg, version), nil
}
