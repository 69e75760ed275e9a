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

package main

import (
	"log"

	"ocr-platform/src/config"
	"ocr-platform/src/internal/server"
)

func main() {
	cfg, err := config.LoadOCR()
	if err != nil {
		log.Fatalf("[ERROR] Failed to load configuration: %v", err)
	}

	srv, err := server.NewOCRServer(cfg)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize OCR API: %v", err)
	}
	defer srv.Close()

	if err := srv.Start(cfg.Port); err != nil {
		log.Fatalf("[ERROR] OCR API stopped: %v", err)
	}
}
