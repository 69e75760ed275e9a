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

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ocr-platform/src/internal/constants"
)

// RegisterDocumentTypeValidation registers the "doctype" binding validation
// on gin's validator engine. The document type enumeration is closed; an
// unknown value fails binding rather than degrading to generic.
func RegisterDocumentTypeValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return constants.ValidDocumentTypes[fl.Field().String()]
	})
}

// UploadResponse acknowledges a stored document
type UploadResponse struct {
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadTime  time.Time `json:"upload_time"`
}

// ProcessRequest starts document processing for an uploaded file
type ProcessRequest struct {
	FileID           string         `json:"file_id" binding:"required"`
	DocumentType     string         `json:"document_type" binding:"required,doctype"`
	ExtractionPrompt string         `json:"extraction_prompt,omitempty"`
	Model            string         `json:"model,omitempty"`
	OutputSchema     map[string]any `json:"output_schema,omitempty"`
}

// HealthResponse reports service liveness and the Admin API probe result
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	AdminAPIStatus string  `json:"admin_api_status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}
