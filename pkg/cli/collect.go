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

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/NVIDIA/inventory-agent/pkg/serializer"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Collect an inventory snapshot of this host",
		Description: `Runs every enabled collector once and prints the snapshot. Nothing is
sent to the collection server.

Examples:
  inventory collect
  inventory collect --format yaml --output snapshot.yaml
  inventory collect --format table`,
		Flags: []cli.Flag{
			formatFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			a, err := newAgent(cmd)
			if err != nil {
				return err
			}

			snap, err := a.Collect(ctx, true)
			if err != nil {
				return fmt.Errorf("failed to collect inventory: %w", err)
			}

			w := newWriter(cmd, f)
			defer w.Close()

			var v any = snap
			if f == serializer.FormatTable {
				v = snapshotTable{snap}
			}
			return w.Serialize(ctx, v)
		},
	}
}

// snapshotTable renders one row per section.
type snapshotTable struct {
	snap *inventory.Snapshot
}

func (t snapshotTable) TableHeader() []string {
	return []string{"SECTION", "STATUS", "DURATION", "DETAIL"}
}

func (t snapshotTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.snap.Sections))
	for _, name := range t.snap.SectionNames() {
		sec := t.snap.Sections[name]
		status, detail := "ok", sectionDetail(t.snap, name)
		if !sec.Available {
			status, detail = "unavailable", sec.Error
		}
		rows = append(rows, []string{name, status, sec.Duration.Round(time.Millisecond).String(), detail})
	}
	return rows
}

func sectionDetail(snap *inventory.Snapshot, name string) string {
	switch name {
	case inventory.SectionSystem:
		if si := snap.System(); si != nil {
			return si.Hostname
		}
	case inventory.SectionSoftware:
		return fmt.Sprintf("%d applications", len(snap.Applications()))
	case inventory.SectionNetwork:
		if nw := snap.Network(); nw != nil {
			return fmt.Sprintf("%d interfaces", len(nw.Interfaces))
		}
	}
	return ""
}
