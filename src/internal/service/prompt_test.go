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
	"strings"
	"testing"

	"ocr-platform/src/internal/constants"
)

func TestBuildPromptPerDocumentType(t *testing.T) {
	svc := NewPromptService()

	tests := []struct {
		docType string
		keyword string
	}{
		{constants.DocumentTypeReceipt, "receipt"},
		{constants.DocumentTypeInvoice, "invoice"},
		{constants.DocumentTypeIDCard, "identity card"},
		{constants.DocumentTypeBusinessCard, "business card"},
		{constants.DocumentTypeTicket, "ticket"},
		{constants.DocumentTypeCoupon, "coupon"},
		{constants.DocumentTypeGeneric, "document"},
	}
	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			prompt := svc.BuildPrompt(tt.docType, "", nil)
			if !strings.Contains(prompt, tt.keyword) {
				t.Errorf("prompt for %s does not mention %q", tt.docType, tt.keyword)
			}
			if strings.Contains(prompt, "{user_prompt}") || strings.Contains(prompt, "{output_schema_instruction}") {
				t.Error("template tokens should be substituted away")
			}
		})
	}
}

func TestBuildPromptUnknownTypeFallsBack(t *testing.T) {
	svc := NewPromptService()

	got := svc.BuildPrompt("mystery", "", nil)
	want := svc.BuildPrompt(constants.DocumentTypeGeneric, "", nil)
	if got != want {
		t.Error("unknown types should render the generic template")
	}
}

func TestBuildPromptIncludesUserInstructions(t *testing.T) {
	svc := NewPromptService()

	prompt := svc.BuildPrompt(constants.DocumentTypeReceipt, "Focus on the tax lines", nil)
	if !strings.Contains(prompt, "Focus on the tax lines") {
		t.Error("user instructions should appear in the prompt")
	}
}

func TestBuildPromptEmbedsSchemaVerbatim(t *testing.T) {
	svc := NewPromptService()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"total":    map[string]any{"type": "number"},
			"merchant": map[string]any{"type": "string"},
		},
	}
	prompt := svc.BuildPrompt(constants.DocumentTypeReceipt, "", schema)

	start := strings.Index(prompt, "```json\n")
	end := strings.LastIndex(prompt, "\n```")
	if start < 0 || end < 0 || end <= start {
		t.Fatal("schema should sit inside a fenced json block")
	}
	embedded := prompt[start+len("```json\n") : end]

	var decoded map[string]any
	if err := json.Unmarshal([]byte(embedded), &decoded); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}
	reencoded, _ := json.Marshal(decoded)
	original, _ := json.Marshal(schema)
	if string(reencoded) != string(original) {
		t.Errorf("embedded schema %s differs from input %s", reencoded, original)
	}
}

func TestBuildPromptOmitsSchemaBlockWhenEmpty(t *testing.T) {
	svc := NewPromptService()

	prompt := svc.BuildPrompt(constants.DocumentTypeReceipt, "", nil)
	if strings.Contains(prompt, "```json") {
		t.Error("no schema was given, the fenced block should be absent")
	}
}
