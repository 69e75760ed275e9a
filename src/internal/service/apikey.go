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
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"ocr-platform/src/internal/constants"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/repository"
)

const apiKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// APIKeyService handles API key lifecycle for a user
type APIKeyService struct {
	keyRepo repository.APIKeyRepository
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(keyRepo repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{keyRepo: keyRepo}
}

// CreateAPIKey issues a new key. The plaintext secret is present on the
// returned model for this one response only; afterwards it is never exposed.
func (s *APIKeyService) CreateAPIKey(userID, name string, expiresInDays *int) (*model.APIKey, error) {
	secret, err := generateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	var expiresAt *time.Time
	if expiresInDays != nil {
		t := time.Now().AddDate(0, 0, *expiresInDays)
		expiresAt = &t
	}

	key := &model.APIKey{
		ID:        uuid.New().String(),
		UserID:    userID,
		Key:       secret,
		Name:      name,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}
	if err := s.keyRepo.CreateAPIKey(key); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys returns the user's keys, optionally only active ones
func (s *APIKeyService) ListAPIKeys(userID string, activeOnly bool) ([]*model.APIKey, error) {
	return s.keyRepo.GetAPIKeysByUserID(userID, activeOnly)
}

// GetAPIKey returns a single key owned by the user
func (s *APIKeyService) GetAPIKey(userID, keyID string) (*model.APIKey, error) {
	key, err := s.keyRepo.GetAPIKeyByID(keyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	if key == nil {
		return nil, constants.ErrAPIKeyNotFound
	}
	if key.UserID != userID {
		return nil, constants.ErrAPIKeyForbidden
	}
	return key, nil
}

// DeleteAPIKey removes a key owned by the user
func (s *APIKeyService) DeleteAPIKey(userID, keyID string) error {
	if _, err := s.GetAPIKey(userID, keyID); err != nil {
		return err
	}
	return s.keyRepo.DeleteAPIKey(keyID)
}

// ActivateAPIKey re-enables a key. An expired key cannot be activated.
func (s *APIKeyService) ActivateAPIKey(userID, keyID string) (*model.APIKey, error) {
	key, err := s.GetAPIKey(userID, keyID)
	if err != nil {
		return nil, err
	}
	if key.IsExpired(time.Now()) {
		return nil, constants.ErrAPIKeyExpired
	}
	if err := s.keyRepo.SetActive(keyID, true); err != nil {
		return nil, fmt.Errorf("failed to activate api key: %w", err)
	}
	key.IsActive = true
	return key, nil
}

// DeactivateAPIKey disables a key without deleting it
func (s *APIKeyService) DeactivateAPIKey(userID, keyID string) (*model.APIKey, error) {
	key, err := s.GetAPIKey(userID, keyID)
	if err != nil {
		return nil, err
	}
	if err := s.keyRepo.SetActive(keyID, false); err != nil {
		return nil, fmt.Errorf("failed to deactivate api key: %w", err)
	}
	key.IsActive = false
	return key, nil
}

// generateAPIKey builds a secret of the form sk_<32 random alphanumerics>
func generateAPIKey() (string, error) {
	tail := make([]byte, constants.APIKeySecretLength)
	for i := range tail {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(apiKeyCharset))))
		if err != nil {
			return "", err
		}
		tail[i] = apiKeyCharset[n.Int64()]
	}
	return constants.APIKeyPrefix + string(tail), nil
}
