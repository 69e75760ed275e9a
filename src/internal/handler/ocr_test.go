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
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/service"
)

type stubEngine struct {
	result map[string]any
	err    error
}

func (s *stubEngine) ProcessImage(ctx context.Context, image []byte, prompt, modelName string) (map[string]any, error) {
	return s.result, s.err
}

type nopRecorder struct{}

func (nopRecorder) RecordUsage(ctx context.Context, record *dto.RecordUsageRequest) {}

func seedKeyContext(c *gin.Context) {
	c.Set("key_context", &model.KeyContext{Key: "sk_test", KeyID: "k1", UserID: "u1"})
}

func passThrough(c *gin.Context) { c.Next() }

func newTestRouter(t *testing.T, engine service.ImageProcessor) (*gin.Engine, *service.StorageService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterDocumentTypeValidation(); err != nil {
		t.Fatalf("failed to register validation: %v", err)
	}

	uploadDir := t.TempDir()
	storage, err := service.NewStorageService(uploadDir, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	processor := service.NewProcessor(storage, service.NewPromptService(), engine, nopRecorder{}, "test-model")
	adminClient := service.NewAdminClient("http://127.0.0.1:1", 100*time.Millisecond)

	h := NewOCRHandler(storage, processor, nopRecorder{}, adminClient, 1024*1024, seedKeyContext, passThrough)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, storage, uploadDir
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(content)
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadAcceptsSupportedTypes(t *testing.T) {
	r, storage, _ := newTestRouter(t, &stubEngine{})

	body, contentType := multipartUpload(t, "receipt.jpg", []byte{0xFF, 0xD8, 0xFF, 0x00})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp dto.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.FileID == "" || resp.Filename != "receipt.jpg" || resp.Size != 4 {
		t.Errorf("response = %+v", resp)
	}

	path, _ := storage.FindUpload(resp.FileID)
	if path == "" {
		t.Error("upload should be on disk")
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	r, _, uploadDir := newTestRouter(t, &stubEngine{})

	body, contentType := multipartUpload(t, "malware.exe", []byte{0x4D, 0x5A})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// Nothing may be persisted for a rejected upload.
	entries, _ := os.ReadDir(uploadDir)
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files on disk", len(entries))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	body, contentType := multipartUpload(t, "big.png", bytes.Repeat([]byte{0xAA}, 2*1024*1024))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProcessRejectsUnknownDocumentType(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	payload, _ := json.Marshal(map[string]any{
		"file_id":       uuid.New().String(),
		"document_type": "passport",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: unknown document types are rejected, not mapped to generic", w.Code)
	}
}

func TestProcessRejectsMalformedFileID(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	payload, _ := json.Marshal(map[string]any{
		"file_id":       "not-a-uuid",
		"document_type": "receipt",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProcessUnknownFileID(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	payload, _ := json.Marshal(map[string]any{
		"file_id":       uuid.New().String(),
		"document_type": "receipt",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUploadProcessStatusFlow(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{result: map[string]any{"merchant": "ACME"}})

	// Upload
	body, contentType := multipartUpload(t, "receipt.jpg", []byte{0xFF, 0xD8, 0xFF, 0x00})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", w.Code)
	}
	var upload dto.UploadResponse
	json.Unmarshal(w.Body.Bytes(), &upload)

	// Process
	payload, _ := json.Marshal(map[string]any{
		"file_id":       upload.FileID,
		"document_type": "receipt",
	})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("process status = %d: %s", w.Code, w.Body.String())
	}
	var job model.Job
	json.Unmarshal(w.Body.Bytes(), &job)
	if job.RequestID == "" {
		t.Fatal("process response missing request_id")
	}

	// Poll status until terminal
	deadline := time.Now().Add(3 * time.Second)
	for {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/v1/status/"+job.RequestID, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", w.Code)
		}
		var snapshot model.Job
		json.Unmarshal(w.Body.Bytes(), &snapshot)
		if snapshot.Status == "completed" {
			if snapshot.Result["merchant"] != "ACME" {
				t.Errorf("result = %v", snapshot.Result)
			}
			break
		}
		if snapshot.Status == "failed" {
			t.Fatalf("job failed: %s", snapshot.Error)
		}
		if time.Now().After(deadline) {
			t.Fatal("job never completed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStatusUnknownRequest(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	for _, id := range []string{uuid.New().String(), "garbage-id"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status/"+id, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status for %q = %d, want 404", id, w.Code)
		}
	}
}

func TestHealthReportsAdminUnreachable(t *testing.T) {
	r, _, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp dto.HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "healthy" {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.AdminAPIStatus != "unreachable" {
		t.Errorf("AdminAPIStatus = %q, want unreachable", resp.AdminAPIStatus)
	}
}
