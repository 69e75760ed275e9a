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
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ocr-platform/src/internal/constants"
	"ocr-platform/src/internal/dto"
	"ocr-platform/src/internal/model"
	"ocr-platform/src/internal/utils"
)

// Processor drives the document processing job lifecycle
// pending -> processing -> completed | failed.
type Processor struct {
	storage      *StorageService
	prompts      *PromptService
	engine       ImageProcessor
	recorder     UsageRecorder
	defaultModel string
}

// NewProcessor creates a new processing orchestrator
func NewProcessor(storage *StorageService, prompts *PromptService, engine ImageProcessor, recorder UsageRecorder, defaultModel string) *Processor {
	return &Processor{
		storage:      storage,
		prompts:      prompts,
		engine:       engine,
		recorder:     recorder,
		defaultModel: defaultModel,
	}
}

// Submit validates the upload, persists a pending job and launches the
// worker. The pending snapshot is on disk before the handle is returned, so
// a status poll issued immediately after never sees an unknown job.
func (p *Processor) Submit(req *dto.ProcessRequest, keyCtx *model.KeyContext) (*model.Job, error) {
	path, err := p.storage.FindUpload(req.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up upload: %w", err)
	}
	if path == "" {
		return nil, constants.ErrUploadNotFound
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.defaultModel
	}

	now := time.Now()
	job := &model.Job{
		RequestID:    uuid.New().String(),
		Status:       constants.JobStatusPending,
		FileID:       req.FileID,
		DocumentType: req.DocumentType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.storage.SaveJob(job); err != nil {
		return nil, err
	}

	go p.run(job.RequestID, req, modelName, keyCtx)

	return job, nil
}

// Status returns the current job snapshot
func (p *Processor) Status(requestID string) (*model.Job, error) {
	job, err := p.storage.GetJob(requestID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, constants.ErrJobNotFound
	}
	return job, nil
}

// run executes one processing job in the background. The job outcome is
// decided entirely by the pipeline; usage recording happens afterwards and
// its failures cannot change the stored status.
func (p *Processor) run(requestID string, req *dto.ProcessRequest, modelName string, keyCtx *model.KeyContext) {
	started := time.Now()

	job, err := p.storage.GetJob(requestID)
	if err != nil || job == nil {
		utils.LogError("failed to reload job "+requestID, err)
		return
	}

	job.Status = constants.JobStatusProcessing
	job.UpdatedAt = time.Now()
	if err := p.storage.SaveJob(job); err != nil {
		utils.LogError("failed to persist processing state", err)
	}

	result, procErr := p.process(req, modelName)

	now := time.Now()
	job.UpdatedAt = now
	job.CompletedAt = &now
	job.ModelUsed = modelName
	job.ProcessingTime = now.Sub(started).Seconds()

	if procErr != nil {
		job.Status = constants.JobStatusFailed
		job.Error = procErr.Error()
		job.CreditsUsed = constants.CreditsProcessFailed
	} else {
		job.Status = constants.JobStatusCompleted
		job.Result = result
		job.CreditsUsed = constants.CreditsProcessDone
	}

	if err := p.storage.SaveJob(job); err != nil {
		utils.LogError("failed to persist terminal job state", err)
	}

	p.recordOutcome(job, keyCtx, procErr)
}

// process runs the extraction pipeline for a job
func (p *Processor) process(req *dto.ProcessRequest, modelName string) (map[string]any, error) {
	image, err := p.storage.ReadUpload(req.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	prompt := p.prompts.BuildPrompt(req.DocumentType, req.ExtractionPrompt, req.OutputSchema)

	return p.engine.ProcessImage(context.Background(), image, prompt, modelName)
}

// recordOutcome reports the background completion or failure event
func (p *Processor) recordOutcome(job *model.Job, keyCtx *model.KeyContext, procErr error) {
	if p.recorder == nil || keyCtx == nil {
		return
	}

	endpoint := constants.EndpointProcessComplete
	statusCode := 200
	credits := constants.CreditsProcessDone
	if procErr != nil {
		endpoint = constants.EndpointProcessFailed
		statusCode = 500
		credits = constants.CreditsProcessFailed
	}

	docType := job.DocumentType
	var keyID *string
	if keyCtx.KeyID != "" {
		id := keyCtx.KeyID
		keyID = &id
	}

	p.recorder.RecordUsage(context.Background(), &dto.RecordUsageRequest{
		UserID:           keyCtx.UserID,
		APIKeyID:         keyID,
		Endpoint:         endpoint,
		StatusCode:       statusCode,
		ProcessingTimeMS: int64(job.ProcessingTime * 1000),
		DocumentType:     &docType,
		ModelUsed:        job.ModelUsed,
		CreditsUsed:      credits,
	})
}
