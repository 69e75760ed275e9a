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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/service"
	"ocr-platform/src/internal/utils"
)

// ValidationHandler exposes the internal validation surface consumed by the
// OCR API. These routes are not JWT protected; they are meant to be reachable
// only on the internal network.
type ValidationHandler struct {
	validationService *service.ValidationService
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(validationService *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// RegisterRoutes registers validation routes
func (h *ValidationHandler) RegisterRoutes(r *gin.Engine) {
	validation := r.Group("/api/v1/validation")
	{
		validation.POST("/api-key", h.ValidateAPIKey)
		validation.POST("/record-usage", h.RecordUsage)
	}
}

// ValidateAPIKey handles POST /api/v1/validation/api-key. The response is
// always 200; the verdict payload carries validity and the reason.
func (h *ValidationHandler) ValidateAPIKey(c *gin.Context) {
	var req dto.APIKeyValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"api_key is required"))
		return
	}

	verdict, err := h.validationService.ValidateKey(req.APIKey)
	if err != nil {
		utils.LogError("Failed to validate API key", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to validate API key"))
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// RecordUsage handles POST /api/v1/validation/record-usage
func (h *ValidationHandler) RecordUsage(c *gin.Context) {
	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid usage record"))
		return
	}

	usageID, err := h.validationService.RecordUsage(&req)
	if err != nil {
		utils.LogError("Failed to record usage", err)
		c.JSON(http.StatusOK, dto.RecordUsageResponse{Success: false, Error: "Failed to record usage"})
		return
	}

	c.JSON(http.StatusOK, dto.RecordUsageResponse{Success: true, UsageID: usageID})
}
