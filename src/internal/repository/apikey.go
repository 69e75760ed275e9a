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
	"database/sql"
	"errors"
	"time"

	"ocr-platform/src/internal/database"
	"ocr-platform/src/internal/model"
)

// APIKeyRepo implements APIKeyRepository
type APIKeyRepo struct {
	db *database.DB
}

// NewAPIKeyRepo creates a new API key repository
func NewAPIKeyRepo(db *database.DB) APIKeyRepository {
	return &APIKeyRepo{db: db}
}

// CreateAPIKey inserts a new API key
func (r *APIKeyRepo) CreateAPIKey(key *model.APIKey) error {
	key.CreatedAt = time.Now()
	key.UpdatedAt = time.Now()

	query := `
		INSERT INTO api_keys (id, user_id, key_value, name, is_active, expires_at, last_used_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		key.ID, key.UserID, key.Key, key.Name, key.IsActive, key.ExpiresAt, key.LastUsedAt, key.CreatedAt, key.UpdatedAt,
	)

	return err
}

// GetAPIKeyByID retrieves an API key by ID
func (r *APIKeyRepo) GetAPIKeyByID(id string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key_value, name, is_active, expires_at, last_used_at, created_at, updated_at
		FROM api_keys
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(r.db.Rebind(query), id))
}

// GetAPIKeyByValue retrieves an API key by its secret value
func (r *APIKeyRepo) GetAPIKeyByValue(value string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key_value, name, is_active, expires_at, last_used_at, created_at, updated_at
		FROM api_keys
		WHERE key_value = ?
	`
	return r.scanOne(r.db.QueryRow(r.db.Rebind(query), value))
}

// GetAPIKeysByUserID retrieves all keys owned by a user, newest first
func (r *APIKeyRepo) GetAPIKeysByUserID(userID string, activeOnly bool) ([]*model.APIKey, error) {
	query := `
		SELECT id, user_id, key_value, name, is_active, expires_at, last_used_at, created_at, updated_at
		FROM api_keys
		WHERE user_id = ?
	`
	if activeOnly {
		query += " AND is_active = ?"
	}
	query += " ORDER BY created_at DESC"

	args := []any{userID}
	if activeOnly {
		args = append(args, true)
	}

	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		key := &model.APIKey{}
		if err := rows.Scan(
			&key.ID, &key.UserID, &key.Key, &key.Name, &key.IsActive,
			&key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt, &key.UpdatedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// SetActive flips the active flag on a key
func (r *APIKeyRepo) SetActive(id string, active bool) error {
	query := `
		UPDATE api_keys
		SET is_active = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), active, time.Now(), id)

	return err
}

// UpdateLastUsed stamps the key's last successful validation time
func (r *APIKeyRepo) UpdateLastUsed(id string, usedAt time.Time) error {
	query := `
		UPDATE api_keys
		SET last_used_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), usedAt, id)

	return err
}

// DeleteAPIKey removes a key permanently
func (r *APIKeyRepo) DeleteAPIKey(id string) error {
	query := `
		DELETE FROM api_keys
		WHERE id = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), id)

	return err
}

func (r *APIKeyRepo) scanOne(row *sql.Row) (*model.APIKey, error) {
	key := &model.APIKey{}
	err := row.Scan(
		&key.ID, &key.UserID, &key.Key, &key.Name, &key.IsActive,
		&key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt, &key.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return key, nil
}
