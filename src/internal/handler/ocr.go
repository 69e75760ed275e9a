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
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ocr-platform/src/internal/constants"
	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/middleware"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/service"
	"ocr-platform/src/internal/utils"
)

// Version is the reported service version
const Version = "1.0.0"

// OCRHandler handles the document upload, processing and status endpoints
type OCRHandler struct {
	storage       *service.StorageService
	processor     *service.Processor
	recorder      service.UsageRecorder
	adminClient   *service.AdminClient
	maxUploadSize int64
	startTime     time.Time

	authMiddleware gin.HandlerFunc
	rateMiddleware gin.HandlerFunc
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(
	storage *service.StorageService,
	processor *service.Processor,
	recorder service.UsageRecorder,
	adminClient *service.AdminClient,
	maxUploadSize int64,
	authMiddleware, rateMiddleware gin.HandlerFunc,
) *OCRHandler {
	return &OCRHandler{
		storage:        storage,
		processor:      processor,
		recorder:       recorder,
		adminClient:    adminClient,
		maxUploadSize:  maxUploadSize,
		startTime:      time.Now(),
		authMiddleware: authMiddleware,
		rateMiddleware: rateMiddleware,
	}
}

// RegisterRoutes registers OCR routes. Upload and process sit behind both
// the credential gateway and the rate limiter; status polls are
// authenticated but not rate limited; health is open.
func (h *OCRHandler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.POST("/upload", h.authMiddleware, h.rateMiddleware, h.Upload)
		v1.POST("/process", h.authMiddleware, h.rateMiddleware, h.Process)
		v1.GET("/status/:requestId", h.authMiddleware, h.Status)
	}
}

// Upload handles POST /api/v1/upload
func (h *OCRHandler) Upload(c *gin.Context) {
	started := time.Now()

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"A file form field is required"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !constants.ValidUploadExtensions[ext] {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Unsupported file type. Allowed: .jpg, .jpeg, .png, .pdf"))
		return
	}

	if file.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"File exceeds maximum upload size"))
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.LogError("Failed to open uploaded file", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to read uploaded file"))
		return
	}
	defer src.Close()

	fileID := uuid.New().String()
	size, err := h.storage.SaveUpload(fileID, ext, src)
	if err != nil {
		utils.LogError("Failed to store uploaded file", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to store uploaded file"))
		return
	}

	log.Printf("[INFO] Stored upload %s (%d bytes)", fileID, size)

	h.recordUsage(c, constants.EndpointUpload, http.StatusCreated, started, constants.CreditsUpload, nil, &size)

	c.JSON(http.StatusCreated, dto.UploadResponse{
		FileID:      fileID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        size,
		UploadTime:  time.Now().UTC(),
	})
}

// Process handles POST /api/v1/process
func (h *OCRHandler) Process(c *gin.Context) {
	started := time.Now()

	var req dto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid process request: document_type must be one of the supported types"))
		return
	}

	if _, err := uuid.Parse(req.FileID); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"file_id is not a valid identifier"))
		return
	}

	keyCtx, _ := middleware.GetKeyContextFromContext(c)

	job, err := h.processor.Submit(&req, keyCtx)
	if err != nil {
		if errors.Is(err, constants.ErrUploadNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"No uploaded file with that file_id"))
			return
		}
		utils.LogError("Failed to submit processing job", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to start processing"))
		return
	}

	log.Printf("[INFO] Submitted processing job %s for file %s (%s)", job.RequestID, req.FileID, req.DocumentType)

	docType := req.DocumentType
	h.recordUsage(c, constants.EndpointProcess, http.StatusOK, started, constants.CreditsProcess, &docType, nil)

	c.JSON(http.StatusOK, job)
}

// Status handles GET /api/v1/status/{requestId}
func (h *OCRHandler) Status(c *gin.Context) {
	started := time.Now()
	requestID := c.Param("requestId")

	// Malformed IDs cannot name a job, so they read as unknown.
	if _, err := uuid.Parse(requestID); err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Processing request not found"))
		return
	}

	job, err := h.processor.Status(requestID)
	if err != nil {
		if errors.Is(err, constants.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"Processing request not found"))
			return
		}
		utils.LogError("Failed to load job status", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to load processing status"))
		return
	}

	h.recordUsage(c, constants.EndpointStatus, http.StatusOK, started, constants.CreditsStatus, nil, nil)

	c.JSON(http.StatusOK, job)
}

// Health handles GET /api/v1/health. The Admin API is probed with a short
// deadline so a slow authority degrades the report, not the endpoint.
func (h *OCRHandler) Health(c *gin.Context) {
	adminStatus := "healthy"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.adminClient.Health(ctx); err != nil {
		adminStatus = "unreachable"
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:         "healthy",
		Version:        Version,
		AdminAPIStatus: adminStatus,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	})
}

// recordUsage reports a billable event in the background. The request
// outcome is already decided by the time this runs.
func (h *OCRHandler) recordUsage(c *gin.Context, endpoint string, statusCode int, started time.Time, credits float64, docType *string, size *int64) {
	keyCtx, ok := middleware.GetKeyContextFromContext(c)
	if !ok || h.recorder == nil {
		return
	}

	record := buildUsageRecord(keyCtx, endpoint, statusCode, time.Since(started), credits, docType, size)
	go h.recorder.RecordUsage(context.Background(), record)
}

func buildUsageRecord(keyCtx *model.KeyContext, endpoint string, statusCode int, elapsed time.Duration, credits float64, docType *string, size *int64) *dto.RecordUsageRequest {
	var keyID *string
	if keyCtx.KeyID != "" {
		id := keyCtx.KeyID
		keyID = &id
	}
	return &dto.RecordUsageRequest{
		UserID:           keyCtx.UserID,
		APIKeyID:         keyID,
		Endpoint:         endpoint,
		StatusCode:       statusCode,
		ProcessingTimeMS: elapsed.Milliseconds(),
		RequestSizeBytes: size,
		DocumentType:     docType,
		CreditsUsed:      credits,
	}
}
