/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func sendCmd() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Collect a fresh snapshot and send it to the collection server",
		Description: `Collects the inventory and delivers it, retrying transient failures
according to agent.max_retries and agent.retry_delay. Exits non-zero when
the snapshot could not be delivered.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newAgent(cmd)
			if err != nil {
				return err
			}

			outcome, err := a.CollectAndSend(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect inventory: %w", err)
			}
			if !outcome.Success() {
				return fmt.Errorf("delivery failed after %d attempt(s): %s", outcome.Attempts, outcome)
			}
			fmt.Fprintf(out(cmd), "inventory delivered to %s (%d attempt(s))\n",
				a.Config().Server.URL, outcome.Attempts)
			return nil
		},
	}
}

func testConnectionCmd() *cli.Command {
	return &cli.Command{
		Name:  "test-connection",
		Usage: "Check that the collection server is reachable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newAgent(cmd)
			if err != nil {
				return err
			}

			ok, msg := a.TestConnection(ctx)
			if !ok {
				return fmt.Errorf("connection test failed: %s", msg)
			}
			fmt.Fprintln(out(cmd), msg)
			return nil
		},
	}
}
