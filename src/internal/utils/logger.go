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

package utils

import (
	"fmt"
	"log"
)

// LogError logs an error message
func LogError(message string, err error) {
	if err != nil {
		log.Printf("[ERROR] %s: %v\n", message, err)
	}
}

// LogInfo logs informational messages
func LogInfo(format string, args ...any) {
	log.Printf("[INFO] %s\n", fmt.Sprintf(format, args...))
}

// LogWarning logs warning messages
func LogWarning(format string, args ...any) {
	log.Printf("[WARN] %s\n", fmt.Sprintf(format, args...))
}
