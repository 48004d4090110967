/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the inventory command-line interface.
//
// # Commands
//
// run - Service mode:
//
//	inventory run [--config FILE] [--log-level LEVEL]
//
// Starts the reporting scheduler and the local control server, notifies
// systemd once ready and blocks until SIGINT or SIGTERM.
//
// collect - One-shot collection:
//
//	inventory collect [--format json|yaml|table] [--output FILE]
//
// send - Collect and deliver once, retrying transient failures:
//
//	inventory send
//
// test-connection - Probe the collection server:
//
//	inventory test-connection
//
// schedule - Preview upcoming runs:
//
//	inventory schedule [--frequency hourly|daily|weekly|monthly] [--count N]
//
// config - Manage the configuration file:
//
//	inventory config init [--force]
//	inventory config validate
//	inventory config show [--show-secrets]
//
// # Configuration
//
// The configuration file defaults to /etc/inventory-agent/config.yaml and
// can be changed with --config or INVENTORY_CONFIG. Any key can be
// overridden from the environment with the INVENTORY_ prefix, for example
// INVENTORY_SERVER_URL.
//
// # Exit Codes
//
// Commands exit 0 on success and 1 on any error, including a snapshot that
// could not be delivered.
package cli
