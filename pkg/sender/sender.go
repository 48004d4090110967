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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/inventory-agent/pkg/defaults"
	"github.com/NVIDIA/inventory-agent/pkg/inventory"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/clock"
)

const (
	userAgentPrefix = "inventory-agent/"
	inventoryPath   = "/api/v1/inventory"
	healthPath      = "/health"
)

var errPermanent = errors.New("permanent delivery failure")

// Config holds the endpoint settings of a Sender.
type Config struct {
	URL       string        `json:"url" yaml:"url"`
	AuthToken string        `json:"-" yaml:"-"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	VerifySSL bool          `json:"verify_ssl" yaml:"verify_ssl"`

	// FailFast stops retrying on outcomes that cannot succeed without a new
	// token or payload (AuthRejected, Forbidden, InvalidPayload).
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`
}

// Envelope is the JSON document POSTed to the collection endpoint.
type Envelope struct {
	Timestamp    string       `json:"timestamp"`
	AgentVersion string       `json:"agent_version"`
	Data         EnvelopeData `json:"data"`
}

// EnvelopeData wraps the assets carried by an Envelope.
type EnvelopeData struct {
	Assets []inventory.Asset `json:"assets"`
}

// Stats are the running delivery counters.
type Stats struct {
	TotalAttempts uint64     `json:"total_attempts" yaml:"total_attempts"`
	TotalFailures uint64     `json:"total_failures" yaml:"total_failures"`
	SuccessRate   float64    `json:"success_rate" yaml:"success_rate"`
	LastSuccess   *time.Time `json:"last_successful_send,omitempty" yaml:"last_successful_send,omitempty"`
	LastOutcome   *Outcome   `json:"last_outcome,omitempty" yaml:"last_outcome,omitempty"`
	ServerURL     string     `json:"server_url" yaml:"server_url"`
}

// Option configures a Sender.
type Option func(*Sender)

// WithClock sets the time source used for envelope timestamps and stats.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Sender) {
		s.clock = c
	}
}

// WithHTTPClient replaces the HTTP client. Config changes no longer rebuild
// the transport; the per-attempt timeout still applies.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.client = c
		s.customClient = true
	}
}

// Sender delivers snapshots to the collection endpoint and keeps running
// counters. It is safe for concurrent use.
type Sender struct {
	agentVersion string
	clock        clock.PassiveClock

	mu           sync.RWMutex
	cfg          Config
	client       *http.Client
	customClient bool

	attempts    atomic.Uint64
	failures    atomic.Uint64
	lastSuccess atomic.Pointer[time.Time]
	lastOutcome atomic.Pointer[Outcome]
}

// New returns a Sender for cfg. A zero Timeout uses defaults.SenderTimeout.
func New(cfg Config, agentVersion string, opts ...Option) *Sender {
	s := &Sender{
		agentVersion: agentVersion,
		clock:        clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.apply(cfg)
	slog.Info("sender configured", slog.String("url", cfg.URL))
	return s
}

func (s *Sender) apply(cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.SenderTimeout
	}
	s.cfg = cfg
	if !s.customClient {
		s.client = &http.Client{Transport: newTransport(cfg.VerifySSL)}
	}
}

func newTransport(verify bool) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		MaxIdleConns:          10,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: !verify, //nolint:gosec // operator opt-out via server.verify_ssl
		},
	}
}

// UpdateConfig atomically replaces the endpoint settings.
func (s *Sender) UpdateConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(cfg)
	slog.Info("sender configuration updated", slog.String("url", cfg.URL))
}

// Config returns the current endpoint settings.
func (s *Sender) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Sender) current() (Config, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.client
}

// NewEnvelope wraps the snapshot's asset view for delivery.
func (s *Sender) NewEnvelope(snap *inventory.Snapshot) Envelope {
	return Envelope{
		Timestamp:    s.clock.Now().Format(time.RFC3339),
		AgentVersion: s.agentVersion,
		Data:         EnvelopeData{Assets: []inventory.Asset{inventory.NewAsset(snap, s.agentVersion)}},
	}
}

// Send makes exactly one delivery attempt.
func (s *Sender) Send(ctx context.Context, snap *inventory.Snapshot) Outcome {
	out := s.send(ctx, snap)
	out.Attempts = 1
	return out
}

func (s *Sender) send(ctx context.Context, snap *inventory.Snapshot) (out Outcome) {
	cfg, client := s.current()
	start := s.clock.Now()

	s.attempts.Add(1)
	defer func() {
		if !out.Success() {
			s.failures.Add(1)
		} else {
			now := s.clock.Now()
			s.lastSuccess.Store(&now)
		}
		o := out
		s.lastOutcome.Store(&o)
		senderAttempts.WithLabelValues(string(out.Kind)).Inc()
		senderRequestDuration.Observe(s.clock.Since(start).Seconds())
	}()

	if snap == nil {
		return Outcome{Kind: UnexpectedError, Message: "no snapshot to send"}
	}

	body, err := json.Marshal(s.NewEnvelope(snap))
	if err != nil {
		slog.Error("failed to encode envelope", slog.String("error", err.Error()))
		return Outcome{Kind: UnexpectedError, Message: fmt.Sprintf("failed to encode payload: %v", err)}
	}
	senderPayloadBytes.Observe(float64(len(body)))

	rctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: UnexpectedError, Message: fmt.Sprintf("invalid request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgentPrefix+s.agentVersion)
	if cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AuthToken)
	}

	slog.Debug("sending inventory", slog.String("url", cfg.URL), slog.Int("bytes", len(body)))

	resp, err := client.Do(req)
	if err != nil {
		kind := classifyError(err)
		msg := describeError(kind, err, cfg.Timeout)
		slog.Error("inventory delivery failed", slog.String("outcome", string(kind)), slog.String("error", err.Error()))
		return Outcome{Kind: kind, Message: msg}
	}
	defer resp.Body.Close()

	text := readSnippet(resp.Body)
	kind := classifyStatus(resp.StatusCode)
	out = Outcome{Kind: kind, StatusCode: resp.StatusCode, Message: describeStatus(kind, resp.StatusCode, text)}

	if kind == Delivered {
		slog.Info("inventory delivered", slog.Int("status", resp.StatusCode))
	} else {
		slog.Error("inventory rejected",
			slog.String("outcome", string(kind)),
			slog.Int("status", resp.StatusCode),
			slog.String("body", text))
	}
	return out
}

// SendWithRetry attempts delivery up to maxRetries+1 times with a fixed
// retryDelay between attempts and returns on the first Delivered outcome.
// When the config has FailFast set, AuthRejected, Forbidden and
// InvalidPayload end the session immediately.
func (s *Sender) SendWithRetry(ctx context.Context, snap *inventory.Snapshot, maxRetries int, retryDelay time.Duration) Outcome {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if err := ctx.Err(); err != nil {
		return Outcome{Kind: UnexpectedError, Message: fmt.Sprintf("delivery canceled: %v", err)}
	}
	failFast := s.Config().FailFast

	backoff := wait.Backoff{
		Duration: retryDelay,
		Factor:   1,
		Steps:    maxRetries + 1,
	}

	var (
		last     Outcome
		attempts int
	)
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		attempts++
		if attempts > 1 {
			slog.Info("retrying inventory delivery",
				slog.Int("attempt", attempts),
				slog.Int("max_attempts", maxRetries+1))
		}
		last = s.send(ctx, snap)
		if last.Success() {
			return true, nil
		}
		if failFast && last.Permanent() {
			return false, errPermanent
		}
		if attempts <= maxRetries {
			slog.Warn("delivery attempt failed",
				slog.Int("attempt", attempts),
				slog.String("outcome", last.String()),
				slog.Duration("retry_in", retryDelay))
		}
		return false, nil
	})
	last.Attempts = attempts

	switch {
	case last.Success():
		if attempts > 1 {
			slog.Info("inventory delivered after retries", slog.Int("attempts", attempts))
		}
	case errors.Is(err, errPermanent):
		slog.Error("delivery failed permanently, not retrying", slog.String("outcome", last.String()))
	case attempts == 0:
		last = Outcome{Kind: UnexpectedError, Message: fmt.Sprintf("delivery canceled: %v", err)}
	default:
		slog.Error("delivery failed after all attempts",
			slog.Int("attempts", attempts),
			slog.String("outcome", last.String()))
	}
	return last
}

// TestConnection probes the endpoint without sending a payload. Any HTTP
// response, including 404 and 405, means the server is reachable.
func (s *Sender) TestConnection(ctx context.Context) (bool, string) {
	cfg, client := s.current()

	rctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	target := HealthURL(cfg.URL)
	req, err := http.NewRequestWithContext(rctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Sprintf("invalid server url: %v", err)
	}
	req.Header.Set("User-Agent", userAgentPrefix+s.agentVersion)
	if cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AuthToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		kind := classifyError(err)
		slog.Warn("connection test failed", slog.String("url", target), slog.String("error", err.Error()))
		return false, describeError(kind, err, cfg.Timeout)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	slog.Info("connection test succeeded", slog.String("url", target), slog.Int("status", resp.StatusCode))
	return true, fmt.Sprintf("server reachable (HTTP %d)", resp.StatusCode)
}

// HealthURL derives the probe URL from the inventory URL by replacing the
// inventory API path with /health. Other URLs are probed as is.
func HealthURL(u string) string {
	if strings.Contains(u, inventoryPath) {
		return strings.Replace(u, inventoryPath, healthPath, 1)
	}
	return u
}

// Stats returns the running counters.
func (s *Sender) Stats() Stats {
	st := Stats{
		TotalAttempts: s.attempts.Load(),
		TotalFailures: s.failures.Load(),
		LastSuccess:   s.lastSuccess.Load(),
		LastOutcome:   s.lastOutcome.Load(),
		ServerURL:     s.Config().URL,
	}
	if st.TotalAttempts > 0 {
		st.SuccessRate = float64(st.TotalAttempts-st.TotalFailures) / float64(st.TotalAttempts) * 100
	}
	return st
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 64*1024))
	if msg := jsonMessage(b); msg != "" {
		return msg
	}
	text := strings.TrimSpace(string(b))
	if len(text) > defaults.SenderErrorBodyLimit {
		text = text[:defaults.SenderErrorBodyLimit]
	}
	return text
}

func jsonMessage(b []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	return body.Message
}

func describeStatus(kind Kind, code int, text string) string {
	switch kind {
	case Delivered:
		if text == "" {
			return "inventory delivered"
		}
		return "inventory delivered: " + text
	case AuthRejected:
		return "authentication failed (invalid or missing token)"
	case Forbidden:
		return "access denied by server"
	case InvalidPayload:
		return "invalid payload: " + text
	default:
		return fmt.Sprintf("server error HTTP %d: %s", code, text)
	}
}

func describeError(kind Kind, err error, timeout time.Duration) string {
	switch kind {
	case Timeout:
		return fmt.Sprintf("request timed out after %s", timeout)
	case ConnectionFailed:
		return fmt.Sprintf("connection failed: %v", err)
	case TLSFailed:
		return fmt.Sprintf("TLS error: %v", err)
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}
