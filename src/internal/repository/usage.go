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

package repository

import (
	"time"

	"ocr-platform/src/internal/database"
	"ocr-platform/src/internal/model"
)

// UsageRepo implements UsageRepository
type UsageRepo struct {
	db *database.DB
}

// NewUsageRepo creates a new usage repository
func NewUsageRepo(db *database.DB) UsageRepository {
	return &UsageRepo{db: db}
}

// CreateUsageRecord inserts a single usage event
func (r *UsageRepo) CreateUsageRecord(record *model.UsageRecord) error {
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO usage_records (
			id, user_id, api_key_id, endpoint, status_code, processing_time_ms,
			request_size_bytes, response_size_bytes, document_type, model_used,
			credits_used, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		record.ID, record.UserID, record.APIKeyID, record.Endpoint, record.StatusCode,
		record.ProcessingTimeMS, record.RequestSizeBytes, record.ResponseSizeBytes,
		record.DocumentType, record.ModelUsed, record.CreditsUsed, record.CreatedAt,
	)

	return err
}
