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
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ocr-platform/src/internal/cache"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/ratelimit"
)

type stubValidator struct {
	verdict *model.KeyVerdict
	calls   int
}

func (s *stubValidator) ValidateAPIKey(ctx context.Context, secret string) *model.KeyVerdict {
	s.calls++
	return s.verdict
}

func gatewayRouter(validator KeyValidator, verdicts *cache.VerdictCache, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", APIKeyAuth(validator, verdicts, debug), func(c *gin.Context) {
		keyCtx, _ := GetKeyContextFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": keyCtx.UserID})
	})
	return r
}

func freshCache() *cache.VerdictCache {
	return cache.NewVerdictCache(10, 5*time.Minute, nil)
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	r := gatewayRouter(&stubValidator{}, freshCache(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "ApiKey" {
		t.Error("missing WWW-Authenticate header")
	}
}

func TestAPIKeyAuthDebugSyntheticIdentity(t *testing.T) {
	validator := &stubValidator{}
	r := gatewayRouter(validator, freshCache(), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if validator.calls != 0 {
		t.Error("debug mode with no key should not contact the authority")
	}
	if body := w.Body.String(); body != `{"user_id":"development-user"}` {
		t.Errorf("body = %s", body)
	}
}

func TestAPIKeyAuthDebugStillValidatesPresentedKey(t *testing.T) {
	validator := &stubValidator{verdict: &model.KeyVerdict{Valid: false, Error: "Invalid API key"}}
	r := gatewayRouter(validator, freshCache(), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-API-Key", "sk_bogus")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401: a presented key is validated even in debug", w.Code)
	}
}

func TestAPIKeyAuthInvalidVerdict(t *testing.T) {
	validator := &stubValidator{verdict: &model.KeyVerdict{Valid: false, Error: "API key has expired"}}
	verdicts := freshCache()
	r := gatewayRouter(validator, verdicts, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-API-Key", "sk_expired")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	// Invalid verdicts are never cached: a second request hits the
	// authority again.
	r.ServeHTTP(httptest.NewRecorder(), req)
	if validator.calls != 2 {
		t.Errorf("authority calls = %d, want 2", validator.calls)
	}
}

func TestAPIKeyAuthCachesValidVerdict(t *testing.T) {
	validator := &stubValidator{verdict: &model.KeyVerdict{Valid: true, KeyID: "k1", UserID: "u1", IsActive: true}}
	r := gatewayRouter(validator, freshCache(), false)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-API-Key", "sk_good")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	}
	if validator.calls != 1 {
		t.Errorf("authority calls = %d, want 1 (cache hit afterwards)", validator.calls)
	}
}

func TestAPIKeyAuthCachedVerdictStopsAtKeyExpiry(t *testing.T) {
	clock := &cache.FixedClock{Time: time.Now()}
	expiresAt := clock.Time.Add(30 * time.Second)
	validator := &stubValidator{verdict: &model.KeyVerdict{
		Valid: true, KeyID: "k1", UserID: "u1", IsActive: true, ExpiresAt: &expiresAt,
	}}
	verdicts := cache.NewVerdictCache(10, 5*time.Minute, clock)
	r := gatewayRouter(validator, verdicts, false)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-API-Key", "sk_short_lived")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 before expiry", w.Code)
	}

	// The key expires while its verdict is still inside the cache TTL.
	// The cached verdict must not outlive the key: the next request goes
	// back to the authority, which now rejects it.
	clock.Advance(31 * time.Second)
	validator.verdict = &model.KeyVerdict{Valid: false, Error: "API key has expired"}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 once the key has expired", w.Code)
	}
	if validator.calls != 2 {
		t.Errorf("authority calls = %d, want 2 (expiry forces a re-check)", validator.calls)
	}
}

func limitedRouter(limiter *ratelimit.SlidingWindow, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	seed := func(c *gin.Context) {
		c.Set("key_context", &model.KeyContext{Key: "sk_good", KeyID: "k1", UserID: "u1"})
	}
	r.GET("/limited", seed, RateLimit(limiter, enabled), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimitRejectsWithHeaders(t *testing.T) {
	clock := &ratelimit.FixedClock{Time: time.Now()}
	limiter := ratelimit.NewSlidingWindow(2, time.Minute, clock)
	r := limitedRouter(limiter, true)

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || retryAfter < 1 {
		t.Errorf("Retry-After = %q, want a positive integer", w.Header().Get("Retry-After"))
	}
	if w.Header().Get("X-Rate-Limit-Limit") != "2" {
		t.Errorf("X-Rate-Limit-Limit = %q", w.Header().Get("X-Rate-Limit-Limit"))
	}
	if w.Header().Get("X-Rate-Limit-Remaining") != "0" {
		t.Errorf("X-Rate-Limit-Remaining = %q", w.Header().Get("X-Rate-Limit-Remaining"))
	}
	if w.Header().Get("X-Rate-Limit-Reset") == "" {
		t.Error("X-Rate-Limit-Reset should be set")
	}
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := ratelimit.NewSlidingWindow(1, time.Minute, nil)
	r := limitedRouter(limiter, false)

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 with limiter disabled", i+1, w.Code)
		}
	}
}
