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

	"ocr-platform/src/internal/model"
)

// UserRepository defines data access methods for users
type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateUser(user *model.User) error
}

// APIKeyRepository defines data access methods for API keys
type APIKeyRepository interface {
	CreateAPIKey(key *model.APIKey) error
	GetAPIKeyByID(id string) (*model.APIKey, error)
	GetAPIKeyByValue(value string) (*model.APIKey, error)
	GetAPIKeysByUserID(userID string, activeOnly bool) ([]*model.APIKey, error)
	SetActive(id string, active bool) error
	UpdateLastUsed(id string, usedAt time.Time) error
	DeleteAPIKey(id string) error
}

// UsageRepository defines data access methods for usage records
type UsageRepository interface {
	CreateUsageRecord(record *model.UsageRecord) error
}
