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

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Admin holds the configuration parameters for the Admin API service.
type Admin struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// Server configurations
	Port string `envconfig:"PORT" default:"8421"`

	// Debug relaxes auth behaviour for local development. Must be false in production.
	Debug bool `envconfig:"DEBUG" default:"false"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./src/internal/database/schema.sql"`

	// JWT Authentication configurations
	JWT JWT `envconfig:"JWT"`
}

// OCR holds the configuration parameters for the OCR API service.
type OCR struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// Server configurations
	Port string `envconfig:"PORT" default:"8420"`

	// Debug makes the API key optional and disables rate limiting.
	// Must be false in production.
	Debug bool `envconfig:"DEBUG" default:"false"`

	// Admin API connection (validation authority)
	AdminAPIURL     string `envconfig:"ADMIN_API_URL" default:"http://localhost:8421"`
	AdminAPITimeout int    `envconfig:"ADMIN_API_TIMEOUT" default:"5"` // seconds

	// API key validation cache
	KeyCacheTTL  int `envconfig:"KEY_CACHE_TTL" default:"300"` // seconds
	KeyCacheSize int `envconfig:"KEY_CACHE_SIZE" default:"1000"`

	// Rate limiting
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`

	// OpenRouter (multimodal LLM provider)
	OpenRouter OpenRouter `envconfig:"OPENROUTER"`

	// File upload and result storage
	Upload Upload `envconfig:"UPLOAD"`

	// Retention cleanup for uploads and results
	Cleanup Cleanup `envconfig:"CLEANUP"`
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// Path is the file path for SQLite databases.
	// Use ADMIN_DATABASE_DB_PATH to override; kept distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/ocr_platform.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"ocr_platform"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// JWT holds JWT-specific configuration
type JWT struct {
	SecretKey      string `envconfig:"SECRET_KEY" default:"your-secret-key-change-in-production"`
	Issuer         string `envconfig:"ISSUER" default:"ocr-platform-admin"`
	ExpireMinutes  int    `envconfig:"EXPIRE_MINUTES" default:"30"`
	RememberMeDays int    `envconfig:"REMEMBER_ME_DAYS" default:"30"`
}

// RateLimit holds sliding-window rate limiter configuration
type RateLimit struct {
	MaxRequests   int `envconfig:"MAX_REQUESTS" default:"60"`
	WindowSeconds int `envconfig:"WINDOW_SECONDS" default:"60"`
}

// OpenRouter holds multimodal LLM provider configuration
type OpenRouter struct {
	BaseURL   string `envconfig:"BASE_URL" default:"https://openrouter.ai/api/v1"`
	APIKey    string `envconfig:"API_KEY" default:""`
	Model     string `envconfig:"MODEL" default:"meta-llama/llama-4-maverick:free"`
	Timeout   int    `envconfig:"TIMEOUT" default:"30"` // seconds
	Referer   string `envconfig:"REFERER" default:"https://ocr-platform.local"`
	MaxTokens int    `envconfig:"MAX_TOKENS" default:"1000"`
}

// Upload holds file upload configuration
type Upload struct {
	MaxSize    int64  `envconfig:"MAX_SIZE" default:"10485760"` // 10MB
	Dir        string `envconfig:"DIR" default:"./data/uploads"`
	ResultsDir string `envconfig:"RESULTS_DIR" default:"./data/results"`
}

// Cleanup holds retention cleanup configuration for uploads and results
type Cleanup struct {
	MaxAgeHours     int `envconfig:"MAX_AGE_HOURS" default:"168"` // 7 days
	IntervalMinutes int `envconfig:"INTERVAL_MINUTES" default:"60"`
}

// LoadAdmin reads Admin API configuration from ADMIN_* environment variables.
// The returned config is passed by reference into the server wiring; no
// package-level singleton is kept.
func LoadAdmin() (*Admin, error) {
	cfg := &Admin{}
	if err := envconfig.Process("ADMIN", cfg); err != nil {
		return nil, fmt.Errorf("failed to process admin configuration: %w", err)
	}
	return cfg, nil
}

// LoadOCR reads OCR API configuration from OCR_* environment variables.
func LoadOCR() (*OCR, error) {
	cfg := &OCR{}
	if err := envconfig.Process("OCR", cfg); err != nil {
		return nil, fmt.Errorf("failed to process ocr configuration: %w", err)
	}
	if err := validateOCRConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateOCRConfig validates OCR API configuration
func validateOCRConfig(cfg *OCR) error {
	if cfg.KeyCacheSize <= 0 {
		return fmt.Errorf("OCR_KEY_CACHE_SIZE must be positive")
	}
	if cfg.RateLimit.MaxRequests <= 0 || cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit requires positive OCR_RATE_LIMIT_MAX_REQUESTS and OCR_RATE_LIMIT_WINDOW_SECONDS")
	}
	if cfg.Upload.MaxSize <= 0 {
		return fmt.Errorf("OCR_UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}
