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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/utils"
)

// UsageRecorder reports billable events. Implementations must be best
// effort: recording failures are swallowed and never reach the caller.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, record *dto.RecordUsageRequest)
}

// AdminClient talks to the Admin API's internal validation surface. Key
// validation fails closed: any timeout, transport failure or non-200
// answer yields an invalid verdict, never an open gate.
type AdminClient struct {
	baseURL string
	client  *http.Client
}

// NewAdminClient creates a client with a bounded request timeout
func NewAdminClient(baseURL string, timeout time.Duration) *AdminClient {
	return &AdminClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ValidateAPIKey asks the validation authority for a verdict on a secret.
// The returned verdict is always non-nil.
func (c *AdminClient) ValidateAPIKey(ctx context.Context, secret string) *model.KeyVerdict {
	body, err := json.Marshal(dto.APIKeyValidationRequest{APIKey: secret})
	if err != nil {
		return &model.KeyVerdict{Valid: false, Error: fmt.Sprintf("Validation error: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/validation/api-key", bytes.NewReader(body))
	if err != nil {
		return &model.KeyVerdict{Valid: false, Error: fmt.Sprintf("Validation error: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			utils.LogWarning("api key validation timed out against %s", c.baseURL)
			return &model.KeyVerdict{Valid: false, Error: "Validation request timed out"}
		}
		utils.LogError("api key validation request failed", err)
		return &model.KeyVerdict{Valid: false, Error: fmt.Sprintf("Validation error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.KeyVerdict{Valid: false, Error: fmt.Sprintf("Validation failed with status %d", resp.StatusCode)}
	}

	verdict := &model.KeyVerdict{}
	if err := json.NewDecoder(resp.Body).Decode(verdict); err != nil {
		return &model.KeyVerdict{Valid: false, Error: fmt.Sprintf("Validation error: %v", err)}
	}
	return verdict
}

// RecordUsage reports a usage event. Failures are logged and dropped so
// telemetry can never change the outcome of the request being billed.
func (c *AdminClient) RecordUsage(ctx context.Context, record *dto.RecordUsageRequest) {
	body, err := json.Marshal(record)
	if err != nil {
		utils.LogError("failed to encode usage record", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/validation/record-usage", bytes.NewReader(body))
	if err != nil {
		utils.LogError("failed to build usage request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		utils.LogWarning("usage recording failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.LogWarning("usage recording returned status %d", resp.StatusCode)
	}
}

// Health probes the Admin API health endpoint
func (c *AdminClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("admin api health returned status %d", resp.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
