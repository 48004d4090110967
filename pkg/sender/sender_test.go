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

package sender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

var testNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

func testSnapshot() *inventory.Snapshot {
	return &inventory.Snapshot{
		CollectedAt:  testNow,
		Duration:     1234 * time.Millisecond,
		HostIdentity: "0e4f6a2b-1c3d-5e7f-8a9b-0c1d2e3f4a5b",
		Sections: map[string]inventory.Section{
			inventory.SectionSystem: inventory.NewSection(inventory.SectionSystem,
				&inventory.SystemInfo{Hostname: "node-1", Architecture: "64-bit"}, 0),
		},
	}
}

// statusServer answers with the given statuses in order, repeating the last.
func statusServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		code := statuses[len(statuses)-1]
		if n <= len(statuses) {
			code = statuses[n-1]
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestSender(url string, mod ...func(*Config)) *Sender {
	cfg := Config{URL: url, Timeout: 2 * time.Second, VerifySSL: true, FailFast: true}
	for _, m := range mod {
		m(&cfg)
	}
	return New(cfg, "1.0.0", WithClock(clocktesting.NewFakeClock(testNow)))
}

func TestSendWithRetry_Exhaustion(t *testing.T) {
	srv, calls := statusServer(t, http.StatusInternalServerError)
	s := newTestSender(srv.URL)

	out := s.SendWithRetry(context.Background(), testSnapshot(), 2, 0)
	assert.Equal(t, ServerError, out.Kind)
	assert.Equal(t, http.StatusInternalServerError, out.StatusCode)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, int32(3), calls.Load())

	st := s.Stats()
	assert.Equal(t, uint64(3), st.TotalAttempts)
	assert.Equal(t, uint64(3), st.TotalFailures)
	assert.Zero(t, st.SuccessRate)
	assert.Nil(t, st.LastSuccess)
}

func TestSendWithRetry_ShortCircuit(t *testing.T) {
	srv, calls := statusServer(t, 500, 500, 201)
	s := newTestSender(srv.URL)

	out := s.SendWithRetry(context.Background(), testSnapshot(), 5, 0)
	assert.Equal(t, Delivered, out.Kind)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, int32(3), calls.Load())

	st := s.Stats()
	assert.Equal(t, uint64(3), st.TotalAttempts)
	assert.Equal(t, uint64(2), st.TotalFailures)
	require.NotNil(t, st.LastSuccess)
	assert.Equal(t, testNow, *st.LastSuccess)
	assert.InDelta(t, 33.33, st.SuccessRate, 0.01)
}

func TestSendWithRetry_FailFast(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest} {
		srv, calls := statusServer(t, code)

		s := newTestSender(srv.URL)
		out := s.SendWithRetry(context.Background(), testSnapshot(), 3, 0)
		assert.Equal(t, 1, out.Attempts, code)
		assert.Equal(t, int32(1), calls.Load(), code)
		assert.True(t, out.Permanent())

		s = newTestSender(srv.URL, func(c *Config) { c.FailFast = false })
		out = s.SendWithRetry(context.Background(), testSnapshot(), 3, 0)
		assert.Equal(t, 4, out.Attempts, code)
		assert.Equal(t, int32(5), calls.Load(), code)
	}
}

func TestSendWithRetry_CanceledBeforeFirstAttempt(t *testing.T) {
	srv, calls := statusServer(t, 201)
	s := newTestSender(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := s.SendWithRetry(ctx, testSnapshot(), 3, 0)
	assert.Equal(t, UnexpectedError, out.Kind)
	assert.Zero(t, out.Attempts)
	assert.Zero(t, calls.Load())
}

func TestSend_StatusClassification(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{http.StatusCreated, Delivered},
		{http.StatusOK, Delivered},
		{http.StatusAccepted, Delivered},
		{http.StatusBadRequest, InvalidPayload},
		{http.StatusUnauthorized, AuthRejected},
		{http.StatusForbidden, Forbidden},
		{http.StatusNotFound, ServerError},
		{http.StatusBadGateway, ServerError},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv, _ := statusServer(t, tt.code)
			out := newTestSender(srv.URL).Send(context.Background(), testSnapshot())
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, tt.code, out.StatusCode)
			assert.Equal(t, 1, out.Attempts)
		})
	}
}

func TestSend_AuthorizationHeader(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Values("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	out := newTestSender(srv.URL).Send(context.Background(), testSnapshot())
	require.True(t, out.Success())
	assert.Empty(t, got.Load())

	out = newTestSender(srv.URL, func(c *Config) { c.AuthToken = "abc" }).Send(context.Background(), testSnapshot())
	require.True(t, out.Success())
	assert.Equal(t, []string{"Bearer abc"}, got.Load())
}

func TestSend_Envelope(t *testing.T) {
	var env map[string]any
	var contentType, userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		userAgent = r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	out := newTestSender(srv.URL).Send(context.Background(), testSnapshot())
	require.True(t, out.Success())

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "inventory-agent/1.0.0", userAgent)
	assert.Equal(t, testNow.Format(time.RFC3339), env["timestamp"])
	assert.Equal(t, "1.0.0", env["agent_version"])

	data, ok := env["data"].(map[string]any)
	require.True(t, ok)
	assets, ok := data["assets"].([]any)
	require.True(t, ok)
	require.Len(t, assets, 1)
	asset := assets[0].(map[string]any)
	assert.Equal(t, "node-1", asset["hostname"])
	assert.Equal(t, "0e4f6a2b-1c3d-5e7f-8a9b-0c1d2e3f4a5b", asset["host_identity"])
	assert.Equal(t, 1.23, asset["collection_duration_seconds"])
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	s := newTestSender(srv.URL, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	out := s.Send(context.Background(), testSnapshot())
	assert.Equal(t, Timeout, out.Kind)
	assert.Contains(t, out.Message, "timed out")
}

func TestSend_ConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := newTestSender(url).Send(context.Background(), testSnapshot())
	assert.Equal(t, ConnectionFailed, out.Kind)
}

func TestSend_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	out := newTestSender(srv.URL).Send(context.Background(), testSnapshot())
	assert.Equal(t, TLSFailed, out.Kind)

	out = newTestSender(srv.URL, func(c *Config) { c.VerifySSL = false }).Send(context.Background(), testSnapshot())
	assert.Equal(t, Delivered, out.Kind)
}

func TestSend_NilSnapshot(t *testing.T) {
	out := newTestSender("http://127.0.0.1:1").Send(context.Background(), nil)
	assert.Equal(t, UnexpectedError, out.Kind)
}

func TestTestConnection(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestSender(srv.URL + "/api/v1/inventory")
	ok, msg := s.TestConnection(context.Background())
	assert.True(t, ok)
	assert.Contains(t, msg, "404")
	assert.Equal(t, "/health", path.Load())
	assert.Zero(t, s.Stats().TotalAttempts)

	srv.Close()
	ok, msg = newTestSender(srv.URL).TestConnection(context.Background())
	assert.False(t, ok)
	assert.Contains(t, msg, "connection failed")
}

func TestUpdateConfig(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := newTestSender("http://127.0.0.1:1")
	s.UpdateConfig(Config{URL: srv.URL, AuthToken: "new", VerifySSL: true})

	cfg := s.Config()
	assert.Equal(t, srv.URL, cfg.URL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, srv.URL, s.Stats().ServerURL)

	out := s.Send(context.Background(), testSnapshot())
	require.True(t, out.Success())
	assert.Equal(t, "Bearer new", auth.Load())
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "https://inv.example.com/health", HealthURL("https://inv.example.com/api/v1/inventory"))
	assert.Equal(t, "https://inv.example.com/ingest", HealthURL("https://inv.example.com/ingest"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "server_error (HTTP 500): boom", Outcome{Kind: ServerError, StatusCode: 500, Message: "boom"}.String())
	assert.Equal(t, "timeout: slow", Outcome{Kind: Timeout, Message: "slow"}.String())
	assert.False(t, Outcome{Kind: Timeout}.Permanent())
	assert.True(t, Outcome{Kind: Forbidden}.Permanent())
}
