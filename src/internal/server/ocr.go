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

package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ocr-platform/src/config"
	"ocr-platform/src/internal/cache"
	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/handler"
	"ocr-platform/src/internal/middleware"
	"ocr-platform/src/internal/ratelimit"
	"ocr-platform/src/internal/service"
	"ocr-platform/src/internal/utils"
)

// OCRServer hosts the document upload, processing and status surface
type OCRServer struct {
	router  *gin.Engine
	storage *service.StorageService
	cleanup *time.Ticker
	done    chan struct{}
}

// NewOCRServer wires the OCR API. The admin client, verdict cache and rate
// limiter are built once here and injected into the middleware chain.
func NewOCRServer(cfg *config.OCR) (*OCRServer, error) {
	if err := dto.RegisterDocumentTypeValidation(); err != nil {
		return nil, fmt.Errorf("failed to register document type validation: %w", err)
	}

	storage, err := service.NewStorageService(cfg.Upload.Dir, cfg.Upload.ResultsDir)
	if err != nil {
		return nil, err
	}

	adminClient := service.NewAdminClient(cfg.AdminAPIURL, time.Duration(cfg.AdminAPITimeout)*time.Second)
	verdicts := cache.NewVerdictCache(cfg.KeyCacheSize, time.Duration(cfg.KeyCacheTTL)*time.Second, nil)
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second, nil)

	prompts := service.NewPromptService()
	engine := service.NewOpenRouterClient(
		cfg.OpenRouter.BaseURL,
		cfg.OpenRouter.APIKey,
		cfg.OpenRouter.Referer,
		cfg.OpenRouter.MaxTokens,
		time.Duration(cfg.OpenRouter.Timeout)*time.Second,
	)
	processor := service.NewProcessor(storage, prompts, engine, adminClient, cfg.OpenRouter.Model)

	authMW := middleware.APIKeyAuth(adminClient, verdicts, cfg.Debug)
	rateMW := middleware.RateLimit(limiter, !cfg.Debug)

	ocrHandler := handler.NewOCRHandler(storage, processor, adminClient, adminClient, cfg.Upload.MaxSize, authMW, rateMW)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-API-Key"}
	router.Use(cors.New(corsConfig))

	ocrHandler.RegisterRoutes(router)

	s := &OCRServer{
		router:  router,
		storage: storage,
		done:    make(chan struct{}),
	}
	s.startCleanupLoop(cfg.Cleanup)

	if cfg.Debug {
		log.Printf("[WARN] Debug mode is on: API key auth is optional and rate limiting is disabled")
	}

	return s, nil
}

// startCleanupLoop periodically removes uploads and job files past the
// retention window.
func (s *OCRServer) startCleanupLoop(cfg config.Cleanup) {
	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	maxAge := time.Duration(cfg.MaxAgeHours) * time.Hour
	s.cleanup = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-s.cleanup.C:
				removed, err := s.storage.CleanupOldFiles(maxAge)
				if err != nil {
					utils.LogError("storage cleanup failed", err)
					continue
				}
				if removed > 0 {
					utils.LogInfo("storage cleanup removed %d stale files", removed)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Start runs the HTTP server on the configured port
func (s *OCRServer) Start(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	log.Printf("[INFO] Starting OCR API on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

// Router returns the gin router for testing purposes
func (s *OCRServer) Router() *gin.Engine {
	return s.router
}

// Close stops the cleanup loop
func (s *OCRServer) Close() {
	s.cleanup.Stop()
	close(s.done)
}
