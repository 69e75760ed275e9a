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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/utils"
)

// StorageService keeps uploaded documents and job snapshots on the local
// filesystem. Jobs are stored as one JSON file per request under resultsDir.
type StorageService struct {
	uploadDir  string
	resultsDir string
}

// NewStorageService creates the storage directories if needed
func NewStorageService(uploadDir, resultsDir string) (*StorageService, error) {
	for _, dir := range []string{uploadDir, resultsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return &StorageService{uploadDir: uploadDir, resultsDir: resultsDir}, nil
}

// SaveUpload streams an uploaded document to disk and returns its size
func (s *StorageService) SaveUpload(fileID string, ext string, r io.Reader) (int64, error) {
	f, err := os.Create(s.uploadPath(fileID, ext))
	if err != nil {
		return 0, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("failed to write upload file: %w", err)
	}
	return n, nil
}

// FindUpload locates a stored upload by file ID regardless of extension.
// Returns an empty path when the file does not exist.
func (s *StorageService) FindUpload(fileID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.uploadDir, fileID+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0], nil
}

// ReadUpload returns the stored document bytes for a file ID
func (s *StorageService) ReadUpload(fileID string) ([]byte, error) {
	path, err := s.FindUpload(fileID)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(path)
}

// SaveJob persists a job snapshot
func (s *StorageService) SaveJob(job *model.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := os.WriteFile(s.jobPath(job.RequestID), data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// GetJob loads a job snapshot. A missing job returns (nil, nil).
func (s *StorageService) GetJob(requestID string) (*model.Job, error) {
	data, err := os.ReadFile(s.jobPath(requestID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	job := &model.Job{}
	if err := json.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("failed to decode job file: %w", err)
	}
	return job, nil
}

// CleanupOldFiles removes uploads and job files older than maxAge and
// returns the number of files removed.
func (s *StorageService) CleanupOldFiles(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, dir := range []string{s.uploadDir, s.resultsDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("failed to read storage directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
					utils.LogWarning("failed to remove stale file %s: %v", e.Name(), err)
					continue
				}
				removed++
			}
		}
	}
	return removed, nil
}

func (s *StorageService) uploadPath(fileID, ext string) string {
	return filepath.Join(s.uploadDir, fileID+ext)
}

func (s *StorageService) jobPath(requestID string) string {
	return filepath.Join(s.resultsDir, requestID+".json")
}
