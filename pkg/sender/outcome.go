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
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind classifies the result of one delivery attempt.
type Kind string

const (
	Delivered        Kind = "delivered"
	AuthRejected     Kind = "auth_rejected"
	Forbidden        Kind = "forbidden"
	InvalidPayload   Kind = "invalid_payload"
	ServerError      Kind = "server_error"
	Timeout          Kind = "timeout"
	ConnectionFailed Kind = "connection_failed"
	TLSFailed        Kind = "tls_failed"
	UnexpectedError  Kind = "unexpected_error"
)

// Outcome is the classified result of a delivery attempt or session.
// Anticipated failures are Outcomes, never errors.
type Outcome struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Message    string `json:"message" yaml:"message"`
	Attempts   int    `json:"attempts" yaml:"attempts"`
}

// Success reports whether the snapshot was delivered.
func (o Outcome) Success() bool { return o.Kind == Delivered }

// Permanent reports whether retrying cannot succeed without a change of
// credentials or payload.
func (o Outcome) Permanent() bool {
	switch o.Kind {
	case AuthRejected, Forbidden, InvalidPayload:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", o.Kind, o.StatusCode, o.Message)
	}
	return fmt.Sprintf("%s: %s", o.Kind, o.Message)
}

// classifyStatus maps an HTTP status to an outcome kind. Any 2xx counts as
// delivered.
func classifyStatus(code int) Kind {
	switch {
	case code >= 200 && code < 300:
		return Delivered
	case code == http.StatusUnauthorized:
		return AuthRejected
	case code == http.StatusForbidden:
		return Forbidden
	case code == http.StatusBadRequest:
		return InvalidPayload
	default:
		return ServerError
	}
}

// classifyError maps a transport error to an outcome kind.
func classifyError(err error) Kind {
	if err == nil {
		return UnexpectedError
	}

	var (
		certErr     *tls.CertificateVerificationError
		unknownCA   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
	)
	switch {
	case errors.As(err, &certErr), errors.As(err, &unknownCA), errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr), errors.As(err, &recordErr), errors.As(err, &alertErr):
		return TLSFailed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}

	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ConnectionFailed
	}
	return UnexpectedError
}
