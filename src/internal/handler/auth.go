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
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/service"
	"ocr-platform/src/internal/utils"
)

// AuthHandler handles account registration, login and profile endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/login/oauth", h.LoginOAuth)
		auth.GET("/me", h.Me)
		auth.PUT("/me", h.UpdateMe)
		auth.POST("/password-reset/request", h.RequestPasswordReset)
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid registration request"))
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, constants.ErrEmailExists) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict",
				"Email already registered"))
			return
		}
		utils.LogError("Failed to register user", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to register user"))
		return
	}

	log.Printf("[INFO] Registered new user: %s", user.Email)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid login request"))
		return
	}

	h.authenticate(c, req.Email, req.Password, req.RememberMe)
}

// LoginOAuth handles POST /api/v1/auth/login/oauth with an OAuth2 password
// form body (username/password fields) for CLI and tooling clients.
func (h *AuthHandler) LoginOAuth(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"username and password form fields are required"))
		return
	}

	h.authenticate(c, email, password, false)
}

func (h *AuthHandler) authenticate(c *gin.Context, email, password string, rememberMe bool) {
	token, err := h.authService.Authenticate(email, password, rememberMe)
	if err != nil {
		if errors.Is(err, constants.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
				"Incorrect email or password"))
			return
		}
		utils.LogError("Failed to authenticate user", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to authenticate"))
		return
	}

	c.JSON(http.StatusOK, token)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, constants.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"User not found"))
			return
		}
		utils.LogError("Failed to load user", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to load user"))
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PUT /api/v1/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized",
			"User identity not found in token"))
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid update request"))
		return
	}

	user, err := h.authService.UpdateUser(userID, &req)
	if err != nil {
		if errors.Is(err, constants.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
				"User not found"))
			return
		}
		utils.LogError("Failed to update user", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"Failed to update user"))
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset/request.
// The response is intentionally identical for known and unknown addresses.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			"Invalid password reset request"))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "If the address is registered, reset instructions will be sent",
	})
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
