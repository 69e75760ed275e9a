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

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

var (
	ErrAPIKeyNotFound  = errors.New("api key not found")
	ErrAPIKeyForbidden = errors.New("api key does not belong to current user")
	ErrAPIKeyExpired   = errors.New("api key is expired and cannot be activated")
)

var (
	ErrUploadNotFound      = errors.New("file not found")
	ErrJobNotFound         = errors.New("processing request not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidDocumentType = errors.New("invalid document type")
)

var (
	ErrMissingAPIKey      = errors.New("api key is missing")
	ErrValidationTimeout  = errors.New("validation request timed out")
	ErrTransformerTimeout = errors.New("transformer request timed out")
)
