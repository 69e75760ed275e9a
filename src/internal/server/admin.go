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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ocr-platform/src/config"
	"ocr-platform/src/internal/database"
	"ocr-platform/src/internal/handler"
	"ocr-platform/src/internal/middleware"
	"ocr-platform/src/internal/repository"
	"ocr-platform/src/internal/service"
)

// AdminServer hosts the account, API key and internal validation surfaces
type AdminServer struct {
	router *gin.Engine
	db     *database.DB
}

// NewAdminServer wires the Admin API: database, repositories, services and
// handlers are constructed here and injected explicitly.
func NewAdminServer(cfg *config.Admin) (*AdminServer, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.ExecuteSchemaDDL {
		if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
			return nil, err
		}
	} else {
		log.Printf("[INFO] Skipping schema DDL execution (ADMIN_DATABASE_EXECUTE_SCHEMA_DDL=false)")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	keyRepo := repository.NewAPIKeyRepo(db)
	usageRepo := repository.NewUsageRepo(db)

	// Services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	apiKeyService := service.NewAPIKeyService(keyRepo)
	validationService := service.NewValidationService(keyRepo, usageRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService)
	validationHandler := handler.NewValidationHandler(validationService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// JWT protects everything except login/registration, the internal
	// validation surface and health.
	router.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		SecretKey:   cfg.JWT.SecretKey,
		TokenIssuer: cfg.JWT.Issuer,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/login/oauth",
			"/api/v1/auth/password-reset/request",
		},
		SkipPrefixes: []string{
			"/api/v1/validation",
		},
	}))

	authHandler.RegisterRoutes(router)
	apiKeyHandler.RegisterRoutes(router)
	validationHandler.RegisterRoutes(router)

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return &AdminServer{router: router, db: db}, nil
}

// Start runs the HTTP server on the configured port
func (s *AdminServer) Start(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	log.Printf("[INFO] Starting Admin API on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

// Router returns the gin router for testing purposes
func (s *AdminServer) Router() *gin.Engine {
	return s.router
}

// Close releases the database connection
func (s *AdminServer) Close() error {
	return s.db.Close()
}
