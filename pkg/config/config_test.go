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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Server.VerifySSL)
	assert.Equal(t, "daily", cfg.Agent.ReportingFrequency)
	assert.Equal(t, 3, cfg.Agent.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Agent.RetryDelay)
	assert.True(t, cfg.Agent.FailFast)
	assert.Equal(t, 5*time.Minute, cfg.Agent.CacheTTL)
	assert.Equal(t, "127.0.0.1:18743", cfg.WebInterface.Addr())
	assert.Empty(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
server:
  url: https://inventory.example.com/api/v1/inventory
  auth_token: secret
  timeout: 45
  verify_ssl: false
agent:
  reporting_frequency: Weekly
  retry_delay: 2s
  collect_network: false
  systemd_services: [nginx.service]
web_interface:
  port: 9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://inventory.example.com/api/v1/inventory", cfg.Server.URL)
	assert.Equal(t, "secret", cfg.Server.AuthToken)
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
	assert.False(t, cfg.Server.VerifySSL)
	assert.Equal(t, "weekly", cfg.Agent.ReportingFrequency)
	assert.Equal(t, 2*time.Second, cfg.Agent.RetryDelay)
	assert.False(t, cfg.Agent.CollectNetwork)
	assert.True(t, cfg.Agent.CollectHardware)
	assert.Equal(t, []string{"nginx.service"}, cfg.Agent.SystemdServices)
	assert.Equal(t, 9000, cfg.WebInterface.Port)
	assert.Equal(t, DefaultWebHost, cfg.WebInterface.Host)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.URL, cfg.Server.URL)
	assert.Equal(t, Default().Agent.SystemdServices, cfg.Agent.SystemdServices)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "server: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("INVENTORY_SERVER_URL", "http://collector.local:8080/api/v1/inventory")
	t.Setenv("INVENTORY_AGENT_REPORTING_FREQUENCY", "hourly")
	t.Setenv("INVENTORY_SERVER_TIMEOUT", "12")
	t.Setenv("INVENTORY_AGENT_FAIL_FAST", "false")

	path := writeFile(t, t.TempDir(), "agent:\n  reporting_frequency: monthly\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://collector.local:8080/api/v1/inventory", cfg.Server.URL)
	assert.Equal(t, "hourly", cfg.Agent.ReportingFrequency)
	assert.Equal(t, 12*time.Second, cfg.Server.Timeout)
	assert.False(t, cfg.Agent.FailFast)
}

func TestLoad_InvalidValuesNormalized(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
server:
  url: ftp://nope
agent:
  reporting_frequency: fortnightly
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, "daily", cfg.Agent.ReportingFrequency)
}

func TestLoader_Check(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
server:
  url: ftp://nope
agent:
  reporting_frequency: fortnightly
`)
	problems, err := NewLoader(path).Check()
	require.NoError(t, err)
	assert.Len(t, problems, 2)

	problems, err = NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Check()
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "not a url"
	cfg.Agent.ReportingFrequency = "yearly"
	cfg.Agent.MaxRetries = -1
	cfg.Agent.LogLevel = "loud"
	cfg.WebInterface.Port = 70000

	problems := cfg.Validate()
	assert.Len(t, problems, 5)
}

func TestValidate_DisabledWebInterfaceIgnoresPort(t *testing.T) {
	cfg := Default()
	cfg.WebInterface.Enabled = false
	cfg.WebInterface.Port = 0
	assert.Empty(t, cfg.Validate())
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Agent.ReportingFrequency = " HOURLY "
	cfg.Server.Timeout = 0
	cfg.Agent.PollInterval = -time.Second

	fixes := cfg.Normalize()
	assert.Len(t, fixes, 2)
	assert.Equal(t, "hourly", cfg.Agent.ReportingFrequency)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Agent.PollInterval)
	assert.Empty(t, cfg.Validate())
}

func TestValidateServerURL(t *testing.T) {
	assert.NoError(t, ValidateServerURL("https://host/api/v1/inventory"))
	assert.NoError(t, ValidateServerURL("http://10.0.0.1:8000/api/v1/inventory"))
	assert.Error(t, ValidateServerURL(""))
	assert.Error(t, ValidateServerURL("ftp://host/"))
	assert.Error(t, ValidateServerURL("http://"))
}

func TestValidateServerTimeout(t *testing.T) {
	assert.NoError(t, ValidateServerTimeout(5*time.Second))
	assert.NoError(t, ValidateServerTimeout(300*time.Second))
	assert.Error(t, ValidateServerTimeout(4*time.Second))
	assert.Error(t, ValidateServerTimeout(301*time.Second))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Server.AuthToken = "token-1"
	cfg.Agent.ReportingFrequency = "monthly"
	cfg.Server.Timeout = 90 * time.Second

	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMap_MasksToken(t *testing.T) {
	cfg := Default()
	cfg.Server.AuthToken = "abc"

	server := cfg.Map(false)["server"].(map[string]any)
	assert.Equal(t, "********", server["auth_token"])
	assert.Equal(t, "30s", server["timeout"])

	server = cfg.Map(true)["server"].(map[string]any)
	assert.Equal(t, "abc", server["auth_token"])
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "agent:\n  reporting_frequency: daily\n")

	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 16)
	l.Watch(ctx, func(c *Config) {
		select {
		case changes <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("agent:\n  reporting_frequency: hourly\n"), 0o600))

	// A truncating write can surface as more than one event.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Agent.ReportingFrequency == "hourly" {
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
