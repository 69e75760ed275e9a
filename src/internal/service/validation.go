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
	"fmt"
	"time"

	"github.com/google/uuid"

	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/repository"
	"ocr-platform/src/internal/utils"
)

// ValidationService is the validation authority behind the internal
// /validation surface consumed by the OCR API.
type ValidationService struct {
	keyRepo   repository.APIKeyRepository
	usageRepo repository.UsageRepository
}

// NewValidationService creates a new validation service
func NewValidationService(keyRepo repository.APIKeyRepository, usageRepo repository.UsageRepository) *ValidationService {
	return &ValidationService{keyRepo: keyRepo, usageRepo: usageRepo}
}

// ValidateKey resolves a presented secret to a verdict. Only database errors
// surface as errors; unknown, inactive and expired keys all produce an
// invalid verdict with a reason.
func (s *ValidationService) ValidateKey(secret string) (*model.KeyVerdict, error) {
	key, err := s.keyRepo.GetAPIKeyByValue(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	if key == nil {
		return &model.KeyVerdict{Valid: false, Error: "Invalid API key"}, nil
	}
	if !key.IsActive {
		return &model.KeyVerdict{Valid: false, Error: "API key is inactive"}, nil
	}
	if key.IsExpired(time.Now()) {
		return &model.KeyVerdict{Valid: false, Error: "API key has expired"}, nil
	}

	// Best effort; a failed stamp must not invalidate the key.
	if err := s.keyRepo.UpdateLastUsed(key.ID, time.Now()); err != nil {
		utils.LogError("failed to update api key last_used", err)
	}

	return &model.KeyVerdict{
		Valid:     true,
		KeyID:     key.ID,
		UserID:    key.UserID,
		IsActive:  key.IsActive,
		ExpiresAt: key.ExpiresAt,
	}, nil
}

// RecordUsage persists a usage event and returns its ID
func (s *ValidationService) RecordUsage(req *dto.RecordUsageRequest) (string, error) {
	record := &model.UsageRecord{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		APIKeyID:          req.APIKeyID,
		Endpoint:          req.Endpoint,
		StatusCode:        req.StatusCode,
		ProcessingTimeMS:  req.ProcessingTimeMS,
		RequestSizeBytes:  req.RequestSizeBytes,
		ResponseSizeBytes: req.ResponseSizeBytes,
		DocumentType:      req.DocumentType,
		ModelUsed:         req.ModelUsed,
		CreditsUsed:       req.CreditsUsed,
	}
	if err := s.usageRepo.CreateUsageRecord(record); err != nil {
		return "", fmt.Errorf("failed to record usage: %w", err)
	}
	return record.ID, nil
}
