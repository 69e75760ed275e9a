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

package dto

// APIKeyValidationRequest is the internal validation call payload
type APIKeyValidationRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// RecordUsageRequest is the internal usage-recording call payload
type RecordUsageRequest struct {
	UserID            string   `json:"user_id" binding:"required"`
	APIKeyID          *string  `json:"api_key_id,omitempty"`
	Endpoint          string   `json:"endpoint" binding:"required"`
	StatusCode        int      `json:"status_code" binding:"required"`
	ProcessingTimeMS  int64    `json:"processing_time_ms"`
	RequestSizeBytes  *int64   `json:"request_size_bytes,omitempty"`
	ResponseSizeBytes *int64   `json:"response_size_bytes,omitempty"`
	DocumentType      *string  `json:"document_type,omitempty"`
	ModelUsed         string   `json:"model_used,omitempty"`
	CreditsUsed       float64  `json:"credits_used"`
}

// RecordUsageResponse acknowledges a recorded usage event
type RecordUsageResponse struct {
	Success bool   `json:"success"`
	UsageID string `json:"usage_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
