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

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/inventory-agent/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// INVENTORY_SERVER_URL or INVENTORY_AGENT_REPORTING_FREQUENCY.
const EnvPrefix = "INVENTORY"

// Loader reads the configuration from a YAML file overlaid with
// environment variables.
type Loader struct {
	path string
	v    *viper.Viper

	mu      sync.Mutex
	watched bool
}

// NewLoader returns a loader for path. An empty path uses DefaultPath.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path, v: newViper(path)}
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and normalizes the configuration. A missing file is not an
// error: defaults and environment overrides apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("failed to read config %s", l.path), err)
		}
		slog.Warn("config file not found, using defaults",
			slog.String("path", l.path))
	}
	return l.decode()
}

// Check reads the configuration without normalizing it and returns every
// value that Load would have adjusted.
func (l *Loader) Check() ([]string, error) {
	if err := l.v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to read config %s", l.path), err)
	}
	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}
	return cfg.Validate(), nil
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to decode config %s", l.path), err)
	}
	return cfg, nil
}

func (l *Loader) decode() (*Config, error) {
	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}
	for _, fix := range cfg.Normalize() {
		slog.Warn("config value adjusted", slog.String("change", fix))
	}
	return cfg, nil
}

// Watch calls onChange with the reloaded configuration each time the file
// changes. Changes arriving after ctx is done are ignored. Watch only
// registers once per loader.
func (l *Loader) Watch(ctx context.Context, onChange func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watched {
		return
	}
	l.watched = true

	var serial sync.Mutex
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		serial.Lock()
		defer serial.Unlock()

		cfg, err := l.decode()
		if err != nil {
			slog.Error("config reload failed",
				slog.String("path", e.Name),
				slog.String("error", err.Error()))
			return
		}
		slog.Info("config reloaded",
			slog.String("path", e.Name),
			slog.String("op", e.Op.String()))
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes cfg to path as YAML, creating parent directories. The file
// holds the auth token so it is written owner-only.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath
	}
	data, err := yaml.Marshal(cfg.Map(true))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create config directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to write config %s", path), err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.auth_token", d.Server.AuthToken)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.verify_ssl", d.Server.VerifySSL)
	v.SetDefault("agent.reporting_frequency", d.Agent.ReportingFrequency)
	v.SetDefault("agent.log_level", d.Agent.LogLevel)
	v.SetDefault("agent.collect_hardware", d.Agent.CollectHardware)
	v.SetDefault("agent.collect_software", d.Agent.CollectSoftware)
	v.SetDefault("agent.collect_network", d.Agent.CollectNetwork)
	v.SetDefault("agent.parallel_collection", d.Agent.ParallelCollection)
	v.SetDefault("agent.cache_ttl", d.Agent.CacheTTL)
	v.SetDefault("agent.max_retries", d.Agent.MaxRetries)
	v.SetDefault("agent.retry_delay", d.Agent.RetryDelay)
	v.SetDefault("agent.fail_fast", d.Agent.FailFast)
	v.SetDefault("agent.poll_interval", d.Agent.PollInterval)
	v.SetDefault("agent.systemd_services", d.Agent.SystemdServices)
	v.SetDefault("web_interface.enabled", d.WebInterface.Enabled)
	v.SetDefault("web_interface.host", d.WebInterface.Host)
	v.SetDefault("web_interface.port", d.WebInterface.Port)
	return v
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// decodeHook accepts durations as "30s" style strings or as bare numbers
// of seconds.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case uint64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if n, err := parseSeconds(v); err == nil {
				return n, nil
			}
		}
		return data, nil
	}
}

func parseSeconds(s string) (time.Duration, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(n * float64(time.Second)), nil
}
