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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageProcessor turns a document image plus a prompt into structured data
type ImageProcessor interface {
	ProcessImage(ctx context.Context, image []byte, prompt, model string) (map[string]any, error)
}

// OpenRouterClient implements ImageProcessor against an OpenRouter-style
// chat-completions API.
type OpenRouterClient struct {
	baseURL   string
	apiKey    string
	referer   string
	maxTokens int
	client    *http.Client
}

// NewOpenRouterClient creates a client with a bounded request timeout
func NewOpenRouterClient(baseURL, apiKey, referer string, maxTokens int, timeout time.Duration) *OpenRouterClient {
	return &OpenRouterClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		referer:   referer,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ProcessImage sends the image and prompt to the model and returns the
// parsed JSON result. Content that is not JSON is wrapped under raw_content.
func (c *OpenRouterClient) ProcessImage(ctx context.Context, image []byte, prompt, model string) (map[string]any, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), base64.StdEncoding.EncodeToString(image))

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []any{
				map[string]any{"type": "text", "text": prompt},
				map[string]any{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
			},
		}},
		MaxTokens:      c.maxTokens,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("model request timed out after %s", c.client.Timeout)
		}
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	parsed := chatResponse{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("model error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	return parseModelContent(parsed.Choices[0].Message.Content), nil
}

// parseModelContent extracts structured data from the model's reply. It
// tries the content as JSON directly, then unwraps a ```json fence, and
// finally falls back to wrapping the raw text.
func parseModelContent(content string) map[string]any {
	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```json") && strings.HasSuffix(trimmed, "```") {
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```json"), "```")
		if err := json.Unmarshal([]byte(strings.TrimSpace(inner)), &result); err == nil {
			return result
		}
	}

	return map[string]any{"raw_content": content}
}
