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

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/inventory-agent/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrCodeNotFound, http.StatusNotFound},
		{apperrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{apperrors.ErrCodeConflict, http.StatusConflict},
		{apperrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{apperrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{apperrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
		{apperrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	assert.True(t, retryableFromCode(apperrors.ErrCodeConflict))
	assert.True(t, retryableFromCode(apperrors.ErrCodeTimeout))
	assert.False(t, retryableFromCode(apperrors.ErrCodeInvalidRequest))
	assert.False(t, retryableFromCode(apperrors.ErrorCode("SOMETHING_ELSE")))
}

func TestMergeDetails(t *testing.T) {
	assert.Nil(t, mergeDetails(nil, nil))
	got := mergeDetails(map[string]any{"a": 1, "b": 1}, map[string]any{"b": 2})
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got)
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/config/server", nil)
		err := apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "bad url",
			map[string]any{"field": "url"})

		WriteErrorFromErr(rec, req, err, "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "INVALID_REQUEST", body.Code)
		assert.Equal(t, "bad url", body.Message)
		assert.Equal(t, "url", body.Details["field"])
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("plain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/collect", nil)

		WriteErrorFromErr(rec, req, errors.New("disk on fire"), "collection failed", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "collection failed", body.Message)
		assert.Equal(t, "disk on fire", body.Details["error"])
		assert.True(t, body.Retryable)
	})
}
