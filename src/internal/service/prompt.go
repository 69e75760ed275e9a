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

	"ocr-platform/src/internal/constants"
)

const (
	userPromptToken   = "{user_prompt}"
	schemaToken       = "{output_schema_instruction}"
	basePromptSuffix  = "\n\nAdditional instructions: " + userPromptToken + schemaToken
	schemaInstruction = "\n\nReturn the result as JSON matching this schema exactly:\n```json\n"
)

var promptTemplates = map[string]string{
	constants.DocumentTypeReceipt: "Extract all information from this receipt. Include merchant name, " +
		"date, time, line items with prices, subtotal, taxes and total amount." + basePromptSuffix,
	constants.DocumentTypeInvoice: "Extract all information from this invoice. Include invoice number, " +
		"issue and due dates, seller and buyer details, line items, tax breakdown and totals." + basePromptSuffix,
	constants.DocumentTypeIDCard: "Extract all information from this identity card. Include full name, " +
		"document number, date of birth, issue and expiry dates and issuing authority." + basePromptSuffix,
	constants.DocumentTypeBusinessCard: "Extract all information from this business card. Include name, " +
		"title, company, phone numbers, email addresses and postal address." + basePromptSuffix,
	constants.DocumentTypeTicket: "Extract all information from this ticket. Include event or service name, " +
		"date, time, venue or route, seat details and price." + basePromptSuffix,
	constants.DocumentTypeCoupon: "Extract all information from this coupon. Include offer description, " +
		"discount value, code, validity period and terms." + basePromptSuffix,
	constants.DocumentTypeGeneric: "Extract all visible text and structured information from this document." +
		basePromptSuffix,
}

// PromptService builds extraction prompts per document type
type PromptService struct{}

// NewPromptService creates a new prompt service
func NewPromptService() *PromptService {
	return &PromptService{}
}

// BuildPrompt renders the template for a document type, substituting the
// caller's extra instructions and output schema. Unknown types fall back to
// the generic template, so the function is total over its inputs.
func (s *PromptService) BuildPrompt(documentType, userPrompt string, outputSchema map[string]any) string {
	template, ok := promptTemplates[documentType]
	if !ok {
		template = promptTemplates[constants.DocumentTypeGeneric]
	}

	prompt := strings.ReplaceAll(template, userPromptToken, userPrompt)
	return strings.ReplaceAll(prompt, schemaToken, schemaInstructionFor(outputSchema))
}

// schemaInstructionFor serializes the caller's schema verbatim inside a
// fenced json block. An empty schema yields no instruction at all.
func schemaInstructionFor(outputSchema map[string]any) string {
	if len(outputSchema) == 0 {
		return ""
	}
	encoded, err := json.MarshalIndent(outputSchema, "", "  ")
	if err != nil {
		return ""
	}
	return schemaInstruction + string(encoded) + "\n```"
}
