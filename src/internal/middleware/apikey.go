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

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ocr-platform/src/internal/cache"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/ratelimit"
)

// KeyValidator resolves an API key secret to a verdict
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context, secret string) *model.KeyVerdict
}

// APIKeyAuth guards the OCR API with X-API-Key credentials. Verdicts come
// from the cache when fresh, otherwise from the validation authority; only
// valid verdicts are cached. In debug mode a missing key yields a synthetic
// development identity instead of a 401.
func APIKeyAuth(validator KeyValidator, verdicts *cache.VerdictCache, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("X-API-Key")

		if secret == "" {
			if debug {
				c.Set("key_context", &model.KeyContext{
					Key:    "development-key",
					KeyID:  "development-key-id",
					UserID: "development-user",
				})
				c.Next()
				return
			}
			c.Header("WWW-Authenticate", "ApiKey")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "API key is missing",
			})
			c.Abort()
			return
		}

		verdict, cached := verdicts.Lookup(secret)
		if !cached {
			verdict = validator.ValidateAPIKey(c.Request.Context(), secret)
			if verdict.Valid {
				verdicts.Store(secret, verdict)
			}
		}

		if !verdict.Valid {
			reason := verdict.Error
			if reason == "" {
				reason = "Invalid API key"
			}
			c.Header("WWW-Authenticate", "ApiKey")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": reason,
			})
			c.Abort()
			return
		}

		c.Set("key_context", &model.KeyContext{
			Key:       secret,
			KeyID:     verdict.KeyID,
			UserID:    verdict.UserID,
			IsActive:  verdict.IsActive,
			ExpiresAt: verdict.ExpiresAt,
		})

		c.Next()
	}
}

// RateLimit rejects requests beyond the sliding-window allowance with 429.
// The identity is the presented key; the limiter is disabled entirely when
// enabled is false (debug mode).
func RateLimit(limiter *ratelimit.SlidingWindow, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		keyCtx, ok := GetKeyContextFromContext(c)
		if !ok {
			c.Next()
			return
		}

		result := limiter.Check(keyCtx.Key)

		c.Header("X-Rate-Limit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-Rate-Limit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-Rate-Limit-Reset", fmt.Sprintf("%d", result.Reset.Unix()))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter / time.Second)
			if result.RetryAfter%time.Second != 0 || retryAfter < 1 {
				retryAfter++
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetKeyContextFromContext extracts the caller identity set by APIKeyAuth
func GetKeyContextFromContext(c *gin.Context) (*model.KeyContext, bool) {
	value, exists := c.Get("key_context")
	if !exists {
		return nil, false
	}
	keyCtx, ok := value.(*model.KeyContext)
	return keyCtx, ok
}
