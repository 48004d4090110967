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

package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/inventory-agent/pkg/server"
)

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func controlHandler(a *Agent) http.Handler {
	return server.New(server.WithHandler(a.Routes())).Handler()
}

func TestHandleCollect(t *testing.T) {
	a, stub := newTestAgent(t, "http://127.0.0.1:1/api/v1/inventory")
	h := controlHandler(a)

	rec, body := do(t, h, http.MethodPost, "/collect", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "collected 2 of 3 sections", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["applications_count"])
	assert.Contains(t, data["unavailable"], "network")

	_, _ = do(t, h, http.MethodPost, "/collect?force=false", "")
	assert.Equal(t, []bool{true, false}, stub.calls())
}

func TestHandleCollect_Error(t *testing.T) {
	a, stub := newTestAgent(t, "http://127.0.0.1:1/api/v1/inventory")
	stub.err = assert.AnError

	rec, body := do(t, controlHandler(a), http.MethodPost, "/collect", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.False(t, a.busy.Load())
}

func TestHandleSend(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		srv, _ := endpoint(t, http.StatusCreated)
		a, _ := newTestAgent(t, srv.URL)

		rec, body := do(t, controlHandler(a), http.MethodPost, "/send", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
	})

	t.Run("rejected", func(t *testing.T) {
		srv, _ := endpoint(t, http.StatusUnauthorized)
		a, _ := newTestAgent(t, srv.URL)

		rec, body := do(t, controlHandler(a), http.MethodPost, "/collect-and-send", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["message"], "auth_rejected")
	})
}

func TestHandlers_ConflictWhileBusy(t *testing.T) {
	a, stub := newTestAgent(t, "http://127.0.0.1:1/api/v1/inventory")
	stub.block = make(chan struct{})
	h := controlHandler(a)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/collect", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}()

	require.Eventually(t, a.busy.Load, 2*time.Second, 10*time.Millisecond)

	for _, path := range []string{"/collect", "/send", "/collect-and-send"} {
		rec, body := do(t, h, http.MethodPost, path, "")
		assert.Equal(t, http.StatusConflict, rec.Code, path)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "CONFLICT", body["code"])
	}

	close(stub.block)
	wg.Wait()
	assert.False(t, a.busy.Load())
}

func TestHandleStatus(t *testing.T) {
	a, _ := newTestAgent(t, "http://127.0.0.1:1/api/v1/inventory")
	rec, body := do(t, controlHandler(a), http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", body["version"])
	assert.Contains(t, body, "scheduler")
	assert.Contains(t, body, "delivery")
}

func TestHandleTestConnection(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK)
	a, _ := newTestAgent(t, srv.URL+"/api/v1/inventory")

	rec, body := do(t, controlHandler(a), http.MethodPost, "/test-connection", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestHandleServerConfig(t *testing.T) {
	a, _ := newTestAgent(t, "http://old.example/api/v1/inventory")
	h := controlHandler(a)

	rec, body := do(t, h, http.MethodGet, "/config/server", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://old.example/api/v1/inventory", body["url"])
	assert.Equal(t, false, body["auth_token_set"])

	rec, body = do(t, h, http.MethodPost, "/config/server",
		`{"url":"https://new.example/api/v1/inventory","timeout":45,"verify_ssl":false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://new.example/api/v1/inventory", a.Sender().Config().URL)
	assert.False(t, a.Sender().Config().VerifySSL)

	tests := []struct {
		name string
		body string
	}{
		{"bad scheme", `{"url":"ftp://x"}`},
		{"timeout too low", `{"timeout":1}`},
		{"timeout too high", `{"timeout":301}`},
		{"unknown field", `{"port":1}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/config/server", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
		})
	}
	assert.Equal(t, "https://new.example/api/v1/inventory", a.ServerSettings().URL)
}

func TestSummarize(t *testing.T) {
	sum := Summarize(testSnapshot())
	assert.Equal(t, []string{"network", "software", "system"}, sum.Sections)
	assert.Equal(t, 1, sum.Applications)
	assert.Equal(t, 2.0, sum.DurationSeconds)
	assert.Len(t, sum.Unavailable, 1)
}
