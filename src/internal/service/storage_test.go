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
	"os"
	"path/filepath"
	"testing"
	"time"

	"ocr-platform/src/internal/model"
)

func TestSaveAndFindUpload(t *testing.T) {
	storage, err := NewStorageService(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	data := []byte("image bytes")
	size, err := storage.SaveUpload("file-1", ".png", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}
	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}

	path, err := storage.FindUpload("file-1")
	if err != nil {
		t.Fatalf("FindUpload failed: %v", err)
	}
	if path == "" {
		t.Fatal("stored upload not found")
	}

	got, err := storage.ReadUpload("file-1")
	if err != nil {
		t.Fatalf("ReadUpload failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("read bytes differ from written bytes")
	}
}

func TestFindUploadMissing(t *testing.T) {
	storage, _ := NewStorageService(t.TempDir(), t.TempDir())

	path, err := storage.FindUpload("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
}

func TestJobRoundTrip(t *testing.T) {
	storage, _ := NewStorageService(t.TempDir(), t.TempDir())

	job := &model.Job{
		RequestID:    "req-1",
		Status:       "pending",
		FileID:       "file-1",
		DocumentType: "receipt",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := storage.SaveJob(job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := storage.GetJob("req-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got == nil || got.RequestID != "req-1" || got.Status != "pending" {
		t.Errorf("loaded job = %+v", got)
	}
}

func TestGetJobMissing(t *testing.T) {
	storage, _ := NewStorageService(t.TempDir(), t.TempDir())

	got, err := storage.GetJob("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("missing jobs should return nil, nil")
	}
}

func TestCleanupOldFiles(t *testing.T) {
	uploadDir := t.TempDir()
	resultsDir := t.TempDir()
	storage, _ := NewStorageService(uploadDir, resultsDir)

	stale := filepath.Join(uploadDir, "old.jpg")
	os.WriteFile(stale, []byte("x"), 0644)
	past := time.Now().Add(-48 * time.Hour)
	os.Chtimes(stale, past, past)

	fresh := filepath.Join(resultsDir, "new.json")
	os.WriteFile(fresh, []byte("{}"), 0644)

	removed, err := storage.CleanupOldFiles(24 * time.Hour)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file should survive")
	}
}
