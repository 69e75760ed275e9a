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

package constants

// Document Type Constants
const (
	DocumentTypeReceipt      = "receipt"
	DocumentTypeInvoice      = "invoice"
	DocumentTypeIDCard       = "id_card"
	DocumentTypeBusinessCard = "business_card"
	DocumentTypeTicket       = "ticket"
	DocumentTypeCoupon       = "coupon"
	DocumentTypeGeneric      = "generic"
)

// ValidDocumentTypes Valid document types. The enumeration is closed: unknown
// types are rejected at the request-validation boundary, never mapped to generic.
var ValidDocumentTypes = map[string]bool{
	DocumentTypeReceipt:      true,
	DocumentTypeInvoice:      true,
	DocumentTypeIDCard:       true,
	DocumentTypeBusinessCard: true,
	DocumentTypeTicket:       true,
	DocumentTypeCoupon:       true,
	DocumentTypeGeneric:      true,
}

// Job Status Constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ValidUploadExtensions Allowed upload file extensions (lowercase, with dot)
var ValidUploadExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Usage endpoint names reported to the Admin API
const (
	EndpointUpload          = "/upload"
	EndpointProcess         = "/process"
	EndpointStatus          = "/status"
	EndpointProcessComplete = "/process/complete"
	EndpointProcessFailed   = "/process/failed"
)

// Credit cost schedule per endpoint
const (
	CreditsUpload        = 0.1
	CreditsProcess       = 1.0
	CreditsStatus        = 0.01
	CreditsProcessDone   = 1.0
	CreditsProcessFailed = 0.1
)

// APIKeyPrefix is prepended to every generated API key secret
const APIKeyPrefix = "sk_"

// APIKeySecretLength is the length of the random tail after the prefix
const APIKeySecretLength = 32
