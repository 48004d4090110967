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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/NVIDIA/inventory-agent/pkg/errors"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"github.com/NVIDIA/inventory-agent/pkg/sender"
	"github.com/NVIDIA/inventory-agent/pkg/serializer"
	"github.com/NVIDIA/inventory-agent/pkg/server"
)

const maxConfigBody = 64 << 10

// ActionResponse is the body of every control action reply.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CollectSummary describes a snapshot without its payload.
type CollectSummary struct {
	HostIdentity    string            `json:"host_identity"`
	CollectedAt     time.Time         `json:"collected_at"`
	DurationSeconds float64           `json:"duration_seconds"`
	Sections        []string          `json:"sections"`
	Unavailable     map[string]string `json:"unavailable,omitempty"`
	Applications    int               `json:"applications_count"`
}

// Summarize builds a CollectSummary for snap.
func Summarize(snap *inventory.Snapshot) CollectSummary {
	sum := CollectSummary{
		HostIdentity:    snap.HostIdentity,
		CollectedAt:     snap.CollectedAt,
		DurationSeconds: snap.Duration.Seconds(),
		Sections:        snap.SectionNames(),
		Applications:    len(snap.Applications()),
	}
	if u := snap.Unavailable(); len(u) > 0 {
		sum.Unavailable = u
	}
	return sum
}

// Routes returns the control handlers keyed by route pattern.
func (a *Agent) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"POST /collect":          a.HandleCollect,
		"POST /send":             a.HandleSend,
		"POST /collect-and-send": a.HandleCollectAndSend,
		"GET /status":            a.HandleStatus,
		"POST /test-connection":  a.HandleTestConnection,
		"GET /config/server":     a.HandleGetServerConfig,
		"POST /config/server":    a.HandleUpdateServerConfig,
	}
}

// begin claims the single action slot, or answers 409.
func (a *Agent) begin(w http.ResponseWriter, r *http.Request) bool {
	if a.busy.CompareAndSwap(false, true) {
		return true
	}
	server.WriteError(w, r, http.StatusConflict, apperrors.ErrCodeConflict,
		"another collection or delivery is in progress", true, nil)
	return false
}

func (a *Agent) end() {
	a.busy.Store(false)
}

// actionContext detaches the action from the client connection so a
// disconnect does not abort a delivery midway.
func actionContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Minute)
}

// HandleCollect handles POST /collect. Collection is fresh unless the
// query sets force=false.
func (a *Agent) HandleCollect(w http.ResponseWriter, r *http.Request) {
	if !a.begin(w, r) {
		return
	}
	defer a.end()

	ctx, cancel := actionContext(r)
	defer cancel()

	force := r.URL.Query().Get("force") != "false"
	snap, err := a.Collect(ctx, force)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "collection failed", nil)
		return
	}

	sum := Summarize(snap)
	serializer.RespondJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: fmt.Sprintf("collected %d of %d sections", snap.AvailableCount(), len(snap.Sections)),
		Data:    sum,
	})
}

// HandleSend handles POST /send.
func (a *Agent) HandleSend(w http.ResponseWriter, r *http.Request) {
	a.handleDelivery(w, r, a.Send)
}

// HandleCollectAndSend handles POST /collect-and-send.
func (a *Agent) HandleCollectAndSend(w http.ResponseWriter, r *http.Request) {
	a.handleDelivery(w, r, a.CollectAndSend)
}

func (a *Agent) handleDelivery(w http.ResponseWriter, r *http.Request,
	op func(context.Context) (sender.Outcome, error)) {

	if !a.begin(w, r) {
		return
	}
	defer a.end()

	ctx, cancel := actionContext(r)
	defer cancel()

	out, err := op(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "collection failed", nil)
		return
	}

	status := http.StatusOK
	if !out.Success() {
		status = http.StatusBadGateway
	}
	serializer.RespondJSON(w, status, ActionResponse{
		Success: out.Success(),
		Message: out.String(),
		Data:    out,
	})
}

// HandleStatus handles GET /status.
func (a *Agent) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	serializer.RespondJSON(w, http.StatusOK, a.Status())
}

// HandleTestConnection handles POST /test-connection.
func (a *Agent) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	ok, msg := a.TestConnection(r.Context())
	serializer.RespondJSON(w, http.StatusOK, ActionResponse{Success: ok, Message: msg})
}

// HandleGetServerConfig handles GET /config/server.
func (a *Agent) HandleGetServerConfig(w http.ResponseWriter, _ *http.Request) {
	serializer.RespondJSON(w, http.StatusOK, a.ServerSettings())
}

// HandleUpdateServerConfig handles POST /config/server.
func (a *Agent) HandleUpdateServerConfig(w http.ResponseWriter, r *http.Request) {
	var u ServerUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfigBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"invalid request body", false, map[string]any{"error": err.Error()})
		return
	}

	if err := a.UpdateServer(u); err != nil {
		server.WriteErrorFromErr(w, r, err, "", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "server configuration updated",
		Data:    a.ServerSettings(),
	})
}
