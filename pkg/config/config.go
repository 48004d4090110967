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
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	"github.com/NVIDIA/inventory-agent/pkg/scheduler"
)

// DefaultPath is where the agent looks for its configuration file.
const DefaultPath = "/etc/inventory-agent/config.yaml"

// Default values.
const (
	DefaultServerURL = "http://localhost:8000/api/v1/inventory"
	DefaultWebHost   = "127.0.0.1"
	DefaultWebPort   = 18743
	DefaultLogLevel  = "info"

	// MinServerTimeout and MaxServerTimeout bound server.timeout when it is
	// changed at runtime.
	MinServerTimeout = 5 * time.Second
	MaxServerTimeout = 300 * time.Second
)

// DefaultSystemdServices are inspected by the platform_extra section.
var DefaultSystemdServices = []string{
	"sshd.service",
	"cron.service",
	"containerd.service",
	"docker.service",
}

// Config is the agent configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Agent        AgentConfig        `mapstructure:"agent"`
	WebInterface WebInterfaceConfig `mapstructure:"web_interface"`
}

// ServerConfig describes the collection endpoint.
type ServerConfig struct {
	URL       string        `mapstructure:"url"`
	AuthToken string        `mapstructure:"auth_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	VerifySSL bool          `mapstructure:"verify_ssl"`
}

// AgentConfig controls collection, scheduling and delivery.
type AgentConfig struct {
	ReportingFrequency string        `mapstructure:"reporting_frequency"`
	LogLevel           string        `mapstructure:"log_level"`
	CollectHardware    bool          `mapstructure:"collect_hardware"`
	CollectSoftware    bool          `mapstructure:"collect_software"`
	CollectNetwork     bool          `mapstructure:"collect_network"`
	ParallelCollection bool          `mapstructure:"parallel_collection"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	MaxRetries         int           `mapstructure:"max_retries"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
	FailFast           bool          `mapstructure:"fail_fast"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	SystemdServices    []string      `mapstructure:"systemd_services"`
}

// WebInterfaceConfig controls the local control surface.
type WebInterfaceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:       DefaultServerURL,
			Timeout:   defaults.SenderTimeout,
			VerifySSL: true,
		},
		Agent: AgentConfig{
			ReportingFrequency: scheduler.DefaultFrequency.String(),
			LogLevel:           DefaultLogLevel,
			CollectHardware:    true,
			CollectSoftware:    true,
			CollectNetwork:     true,
			CacheTTL:           defaults.SnapshotCacheTTL,
			MaxRetries:         defaults.SenderMaxRetries,
			RetryDelay:         defaults.SenderRetryDelay,
			FailFast:           true,
			PollInterval:       defaults.SchedulerPollInterval,
			SystemdServices:    append([]string(nil), DefaultSystemdServices...),
		},
		WebInterface: WebInterfaceConfig{
			Enabled: true,
			Host:    DefaultWebHost,
			Port:    DefaultWebPort,
		},
	}
}

// Addr returns the control surface listen address.
func (w WebInterfaceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// ValidateServerURL checks that u is an absolute http or https URL.
func ValidateServerURL(u string) error {
	if strings.TrimSpace(u) == "" {
		return fmt.Errorf("server url is empty")
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("server url %q is invalid: %w", u, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server url %q must use http or https", u)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server url %q has no host", u)
	}
	return nil
}

// ValidateServerTimeout checks that d is within the runtime bounds.
func ValidateServerTimeout(d time.Duration) error {
	if d < MinServerTimeout || d > MaxServerTimeout {
		return fmt.Errorf("server timeout %s must be between %s and %s", d, MinServerTimeout, MaxServerTimeout)
	}
	return nil
}

// Validate returns every problem found; an empty result means valid.
func (c *Config) Validate() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if err := ValidateServerURL(c.Server.URL); err != nil {
		add("%v", err)
	}
	if c.Server.Timeout <= 0 {
		add("server timeout must be positive, got %s", c.Server.Timeout)
	}
	if _, err := scheduler.ParseFrequency(c.Agent.ReportingFrequency); err != nil {
		add("%v", err)
	}
	if !validLogLevel(c.Agent.LogLevel) {
		add("unsupported log level %q", c.Agent.LogLevel)
	}
	if c.Agent.MaxRetries < 0 {
		add("max_retries must not be negative, got %d", c.Agent.MaxRetries)
	}
	if c.Agent.RetryDelay < 0 {
		add("retry_delay must not be negative, got %s", c.Agent.RetryDelay)
	}
	if c.Agent.CacheTTL < 0 {
		add("cache_ttl must not be negative, got %s", c.Agent.CacheTTL)
	}
	if c.Agent.PollInterval <= 0 {
		add("poll_interval must be positive, got %s", c.Agent.PollInterval)
	}
	if c.WebInterface.Enabled {
		if c.WebInterface.Port < 1 || c.WebInterface.Port > 65535 {
			add("web_interface port %d is out of range", c.WebInterface.Port)
		}
		if c.WebInterface.Host == "" {
			add("web_interface host is empty")
		}
	}
	return problems
}

func validLogLevel(l string) bool {
	switch strings.ToLower(l) {
	case "debug", "info", "warn", "warning", "error", "critical":
		return true
	default:
		return false
	}
}

// Normalize replaces invalid values with defaults and returns a description
// of each substitution. It never fails.
func (c *Config) Normalize() []string {
	d := Default()
	var fixes []string
	fix := func(format string, args ...any) {
		fixes = append(fixes, fmt.Sprintf(format, args...))
	}

	if f, err := scheduler.ParseFrequency(c.Agent.ReportingFrequency); err != nil {
		fix("reporting_frequency %q replaced with %q", c.Agent.ReportingFrequency, d.Agent.ReportingFrequency)
		c.Agent.ReportingFrequency = d.Agent.ReportingFrequency
	} else {
		c.Agent.ReportingFrequency = f.String()
	}
	if err := ValidateServerURL(c.Server.URL); err != nil {
		fix("server url %q replaced with %q", c.Server.URL, d.Server.URL)
		c.Server.URL = d.Server.URL
	}
	if c.Server.Timeout <= 0 {
		fix("server timeout %s replaced with %s", c.Server.Timeout, d.Server.Timeout)
		c.Server.Timeout = d.Server.Timeout
	}
	if !validLogLevel(c.Agent.LogLevel) {
		fix("log_level %q replaced with %q", c.Agent.LogLevel, d.Agent.LogLevel)
		c.Agent.LogLevel = d.Agent.LogLevel
	}
	if c.Agent.MaxRetries < 0 {
		fix("max_retries %d replaced with 0", c.Agent.MaxRetries)
		c.Agent.MaxRetries = 0
	}
	if c.Agent.RetryDelay < 0 {
		fix("retry_delay %s replaced with 0s", c.Agent.RetryDelay)
		c.Agent.RetryDelay = 0
	}
	if c.Agent.CacheTTL < 0 {
		fix("cache_ttl %s replaced with %s", c.Agent.CacheTTL, d.Agent.CacheTTL)
		c.Agent.CacheTTL = d.Agent.CacheTTL
	}
	if c.Agent.PollInterval <= 0 {
		fix("poll_interval %s replaced with %s", c.Agent.PollInterval, d.Agent.PollInterval)
		c.Agent.PollInterval = d.Agent.PollInterval
	}
	if c.WebInterface.Port < 1 || c.WebInterface.Port > 65535 {
		fix("web_interface port %d replaced with %d", c.WebInterface.Port, d.WebInterface.Port)
		c.WebInterface.Port = d.WebInterface.Port
	}
	if c.WebInterface.Host == "" {
		c.WebInterface.Host = d.WebInterface.Host
	}
	return fixes
}

// Map returns the configuration as nested maps with durations rendered as
// strings. The auth token is masked unless withSecrets is set.
func (c *Config) Map(withSecrets bool) map[string]any {
	token := c.Server.AuthToken
	if !withSecrets && token != "" {
		token = "********"
	}
	return map[string]any{
		"server": map[string]any{
			"url":        c.Server.URL,
			"auth_token": token,
			"timeout":    c.Server.Timeout.String(),
			"verify_ssl": c.Server.VerifySSL,
		},
		"agent": map[string]any{
			"reporting_frequency": c.Agent.ReportingFrequency,
			"log_level":           c.Agent.LogLevel,
			"collect_hardware":    c.Agent.CollectHardware,
			"collect_software":    c.Agent.CollectSoftware,
			"collect_network":     c.Agent.CollectNetwork,
			"parallel_collection": c.Agent.ParallelCollection,
			"cache_ttl":           c.Agent.CacheTTL.String(),
			"max_retries":         c.Agent.MaxRetries,
			"retry_delay":         c.Agent.RetryDelay.String(),
			"fail_fast":           c.Agent.FailFast,
			"poll_interval":       c.Agent.PollInterval.String(),
			"systemd_services":    c.Agent.SystemdServices,
		},
		"web_interface": map[string]any{
			"enabled": c.WebInterface.Enabled,
			"host":    c.WebInterface.Host,
			"port":    c.WebInterface.Port,
		},
	}
}
