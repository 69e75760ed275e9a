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

// Job tracks one document processing request through its lifecycle
// pending -> processing -> completed | failed. Terminal states are immutable.
type Job struct {
	RequestID      string         `json:"request_id"`
	Status         string         `json:"status"`
	FileID         string         `json:"file_id"`
	DocumentType   string         `json:"document_type"`
	Result         map[string]any `json:"result,omitempty"`
	Error          string         `json:"error,omitempty"`
	ModelUsed      string         `json:"model_used,omitempty"`
	ProcessingTime float64        `json:"processing_time,omitempty"` // seconds
	CreditsUsed    float64        `json:"credits_used,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}
