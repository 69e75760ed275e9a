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

package model

import "time"

// UsageRecord is a single billable event reported by the OCR API.
// Recording is best effort; a lost record never fails the caller's request.
type UsageRecord struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	APIKeyID          *string   `json:"api_key_id,omitempty"`
	Endpoint          string    `json:"endpoint"`
	StatusCode        int       `json:"status_code"`
	ProcessingTimeMS  int64     `json:"processing_time_ms"`
	RequestSizeBytes  *int64    `json:"request_size_bytes,omitempty"`
	ResponseSizeBytes *int64    `json:"response_size_bytes,omitempty"`
	DocumentType      *string   `json:"document_type,omitempty"`
	ModelUsed         string    `json:"model_used,omitempty"`
	CreditsUsed       float64   `json:"credits_used"`
	CreatedAt         time.Time `json:"created_at"`
}
