// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/inventory-agent/pkg/agent"
	"github.com/NVIDIA/inventory-agent/pkg/config"
	"github.com/NVIDIA/inventory-agent/pkg/logging"
	"github.com/NVIDIA/inventory-agent/pkg/server"
)

const (
	name           = "inventoryd"
	versionDefault = "dev"

	// ConfigPathEnv overrides the config file path for Serve.
	ConfigPathEnv = "INVENTORY_CONFIG"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/NVIDIA/inventory-agent/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options tune Run.
type Options struct {
	// ConfigPath is the YAML config file. Empty uses config.DefaultPath.
	ConfigPath string

	// LogLevel overrides agent.log_level when set.
	LogLevel string

	// Version overrides the build version, for embedding in another binary.
	Version string
}

// Serve runs the agent daemon until SIGINT or SIGTERM.
func Serve() error {
	return Run(context.Background(), Options{ConfigPath: os.Getenv(ConfigPathEnv)})
}

// Run loads the configuration, starts the scheduler and the control server
// and blocks until ctx is canceled or a signal arrives.
func Run(ctx context.Context, opts Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ver := version
	if opts.Version != "" {
		ver = opts.Version
	}

	loader := config.NewLoader(opts.ConfigPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Agent.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logging.SetDefaultStructuredLoggerWithLevel(name, ver, level)
	slog.Info("starting",
		slog.String("name", name),
		slog.String("version", ver),
		slog.String("commit", commit),
		slog.String("date", date),
		slog.String("config", loader.Path()))

	for _, p := range cfg.Validate() {
		slog.Warn("configuration problem", slog.String("problem", p))
	}

	a := agent.New(cfg, ver, agent.WithConfigPath(loader.Path()))
	loader.Watch(ctx, a.ApplyConfig)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.WebInterface.Enabled {
		s := server.New(
			server.WithName(name),
			server.WithVersion(ver),
			server.WithAddress(cfg.WebInterface.Host, cfg.WebInterface.Port),
			server.WithHandler(a.Routes()),
		)
		g.Go(func() error {
			return s.Run(gctx)
		})
	} else {
		slog.Info("control server disabled")
	}
	g.Go(func() error {
		return a.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("agent exited with error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
