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

package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ocr-platform/src/config"
	"ocr-platform/src/internal/constants"
	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/repository"
)

// AuthService handles account registration, login and profile updates
type AuthService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWT
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWT) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register creates a new account with a bcrypt password hash
func (s *AuthService) Register(req *dto.RegisterRequest) (*model.User, error) {
	existing, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, constants.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and issues a signed access token.
// rememberMe extends the token lifetime from minutes to days.
func (s *AuthService) Authenticate(email, password string, rememberMe bool) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, constants.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, constants.ErrInvalidCredentials
	}

	lifetime := time.Duration(s.jwtCfg.ExpireMinutes) * time.Minute
	if rememberMe {
		lifetime = time.Duration(s.jwtCfg.RememberMeDays) * 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iss": s.jwtCfg.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(lifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(lifetime.Seconds()),
	}, nil
}

// GetUser returns the account with the given ID
func (s *AuthService) GetUser(userID string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, constants.ErrUserNotFound
	}
	return user, nil
}

// UpdateUser applies profile changes; a new password is re-hashed
func (s *AuthService) UpdateUser(userID string, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
