/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
)

func TestValidateAPIKeyValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/validation/api-key" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req dto.APIKeyValidationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.APIKey != "sk_good" {
			t.Errorf("api_key = %q, want sk_good", req.APIKey)
		}
		json.NewEncoder(w).Encode(model.KeyVerdict{Valid: true, KeyID: "k1", UserID: "u1", IsActive: true})
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 2*time.Second)
	verdict := client.ValidateAPIKey(context.Background(), "sk_good")

	if !verdict.Valid {
		t.Fatalf("verdict should be valid, got error %q", verdict.Error)
	}
	if verdict.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", verdict.UserID)
	}
}

func TestValidateAPIKeyInvalidVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.KeyVerdict{Valid: false, Error: "API key has expired"})
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 2*time.Second)
	verdict := client.ValidateAPIKey(context.Background(), "sk_expired")

	if verdict.Valid {
		t.Fatal("verdict should be invalid")
	}
	if verdict.Error != "API key has expired" {
		t.Errorf("Error = %q, want authority reason", verdict.Error)
	}
}

func TestValidateAPIKeyFailsClosedOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 50*time.Millisecond)
	verdict := client.ValidateAPIKey(context.Background(), "sk_slow")

	if verdict.Valid {
		t.Fatal("a timed-out validation must fail closed")
	}
	if !strings.Contains(verdict.Error, "timed out") {
		t.Errorf("Error = %q, want timeout reason", verdict.Error)
	}
}

func TestValidateAPIKeyFailsClosedOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 2*time.Second)
	verdict := client.ValidateAPIKey(context.Background(), "sk_any")

	if verdict.Valid {
		t.Fatal("a 5xx from the authority must fail closed")
	}
}

func TestValidateAPIKeyFailsClosedWhenUnreachable(t *testing.T) {
	client := NewAdminClient("http://127.0.0.1:1", 500*time.Millisecond)
	verdict := client.ValidateAPIKey(context.Background(), "sk_any")

	if verdict.Valid {
		t.Fatal("an unreachable authority must fail closed")
	}
}

func TestRecordUsageSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 2*time.Second)

	// Must not panic and has no error to return.
	client.RecordUsage(context.Background(), &dto.RecordUsageRequest{
		UserID:     "u1",
		Endpoint:   "/upload",
		StatusCode: 201,
	})

	unreachable := NewAdminClient("http://127.0.0.1:1", 100*time.Millisecond)
	unreachable.RecordUsage(context.Background(), &dto.RecordUsageRequest{
		UserID:     "u1",
		Endpoint:   "/upload",
		StatusCode: 201,
	})
}

func TestRecordUsagePostsPayload(t *testing.T) {
	received := make(chan dto.RecordUsageRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/validation/record-usage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req dto.RecordUsageRequest
		json.NewDecoder(r.Body).Decode(&req)
		received <- req
		json.NewEncoder(w).Encode(dto.RecordUsageResponse{Success: true, UsageID: "usage-1"})
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, 2*time.Second)
	client.RecordUsage(context.Background(), &dto.RecordUsageRequest{
		UserID:      "u1",
		Endpoint:    "/process",
		StatusCode:  200,
		CreditsUsed: 1.0,
	})

	select {
	case req := <-received:
		if req.UserID != "u1" || req.Endpoint != "/process" || req.CreditsUsed != 1.0 {
			t.Errorf("unexpected payload: %+v", req)
		}
	case <-time.After(time.Second):
		t.Fatal("usage record never reached the server")
	}
}
