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
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ocr-platform/src/internal/constants"
	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/middleware"
	"ocr-platform/src/internal/service"
	"ocr-platform/src/internal/utils"
)

// APIKeyHandler handles API key lifecycle endpoints
type APIKeyHandler struct {
	apiKeyService *service.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(apiKeyService *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// RegisterRoutes registers API key routes
func (h *APIKeyHandler) RegisterRoutes(r *gin.Engine) {
	keys := r.Group("/api/v1/api-keys")
	{
		keys.POST("", h.CreateAPIKey)
		keys.GET("", h.ListAPIKeys)
		keys.GET("/:keyId", h.GetAPIKey)
		keys.DELETE("/:keyId", h.DeleteAPIKey)
		keys.PATCH("/:keyId/activate", h.ActivateAPIKey)
		keys.PATCH("/:keyId/deactivate", h.DeactivateAPIKey)
	}
}

// CreateAPIKey handles POST /api/v1/api-keys. The response is the only place
// the plaintext secret ever appears.
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid API key creation request"))
		return
	}

	key, err := h.apiKeyService.CreateAPIKey(userID, req.Name, req.ExpiresInDays)
	if err != nil {
		utils.LogError("Failed to create API key", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to create API key"))
		return
	}

	log.Printf("[INFO] Created API key %s for user %s", key.ID, userID)

	resp := dto.NewAPIKeyResponse(key)
	resp.Key = key.Key
	c.JSON(http.StatusCreated, resp)
}

// ListAPIKeys handles GET /api/v1/api-keys?active_only=true
func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	activeOnly := c.Query("active_only") == "true"

	keys, err := h.apiKeyService.ListAPIKeys(userID, activeOnly)
	if err != nil {
		utils.LogError("Failed to list API keys", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to list API keys"))
		return
	}

	resp := make([]dto.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		resp = append(resp, dto.NewAPIKeyResponse(key))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAPIKey handles GET /api/v1/api-keys/{keyId}
func (h *APIKeyHandler) GetAPIKey(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	key, err := h.apiKeyService.GetAPIKey(userID, c.Param("keyId"))
	if err != nil {
		h.writeKeyError(c, err, "Failed to get API key")
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIKeyResponse(key))
}

// DeleteAPIKey handles DELETE /api/v1/api-keys/{keyId}
func (h *APIKeyHandler) DeleteAPIKey(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	if err := h.apiKeyService.DeleteAPIKey(userID, c.Param("keyId")); err != nil {
		h.writeKeyError(c, err, "Failed to delete API key")
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateAPIKey handles PATCH /api/v1/api-keys/{keyId}/activate
func (h *APIKeyHandler) ActivateAPIKey(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	key, err := h.apiKeyService.ActivateAPIKey(userID, c.Param("keyId"))
	if err != nil {
		if errors.Is(err, constants.ErrAPIKeyExpired) {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
				"Cannot activate an expired API key"))
			return
		}
		h.writeKeyError(c, err, "Failed to activate API key")
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIKeyResponse(key))
}

// DeactivateAPIKey handles PATCH /api/v1/api-keys/{keyId}/deactivate
func (h *APIKeyHandler) DeactivateAPIKey(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	key, err := h.apiKeyService.DeactivateAPIKey(userID, c.Param("keyId"))
	if err != nil {
		h.writeKeyError(c, err, "Failed to deactivate API key")
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIKeyResponse(key))
}

func (h *APIKeyHandler) writeKeyError(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, constants.ErrAPIKeyNotFound) {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"API key not found"))
		return
	}
	if errors.Is(err, constants.ErrAPIKeyForbidden) {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(403, "Forbidden",
			"API key does not belong to current user"))
		return
	}
	utils.LogError(logMsg, err)
	c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error", logMsg))
}
