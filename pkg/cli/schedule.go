/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/inventory-agent/pkg/scheduler"
	"github.com/NVIDIA/inventory-agent/pkg/serializer"
)

const (
	frequencyFlagName = "frequency"
	countFlagName     = "count"
)

func frequencyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  frequencyFlagName,
		Usage: fmt.Sprintf("preview a frequency instead of the configured one (%v)", scheduler.Frequencies()),
	}
}

func countFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    countFlagName,
		Aliases: []string{"n"},
		Usage:   "number of upcoming runs to show",
		Value:   5,
	}
}

// schedulePreview lists the upcoming reporting runs.
type schedulePreview struct {
	Frequency   scheduler.Frequency `json:"frequency" yaml:"frequency"`
	Description string              `json:"description" yaml:"description"`
	NextRuns    []time.Time         `json:"next_runs" yaml:"next_runs"`
}

func (p schedulePreview) TableHeader() []string {
	return []string{"#", "NEXT RUN"}
}

func (p schedulePreview) TableRows() [][]string {
	rows := make([][]string, 0, len(p.NextRuns))
	for i, t := range p.NextRuns {
		rows = append(rows, []string{fmt.Sprint(i + 1), t.Format(time.RFC1123)})
	}
	return rows
}

func scheduleCmd() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Show the upcoming reporting runs",
		Flags: []cli.Flag{
			frequencyFlag(),
			countFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			freq := cmd.String(frequencyFlagName)
			if freq == "" {
				cfg, cerr := loadConfig(cmd)
				if cerr != nil {
					return cerr
				}
				freq = cfg.Agent.ReportingFrequency
			}
			parsed, err := scheduler.ParseFrequency(freq)
			if err != nil {
				return err
			}

			count := int(cmd.Int(countFlagName))
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			s := scheduler.New(parsed.String(), nil)
			w := serializer.NewWriter(f, out(cmd))
			defer w.Close()

			return w.Serialize(ctx, schedulePreview{
				Frequency:   parsed,
				Description: parsed.Describe(),
				NextRuns:    s.NextRuns(count),
			})
		},
	}
}
