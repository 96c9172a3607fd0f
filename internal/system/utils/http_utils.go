/*
 * Copyright (c) 2025-2026, Veridata Inc. (https://www.veridata.io).
 *
 * Veridata Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"encoding/json"
	"errors" // Standard Go errors package
	"fmt"
	"net/http"
	"strings"

	customerrors "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a success envelope with the given payload.
func RespondJSON(w http.ResponseWriter, statusCode int, message string, data interface{}) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// HandleError sends an HTTP error response based on the provided error.
// Client errors carry their own status and payload; anything else is logged
// and reported as an opaque internal error.
func HandleError(w http.ResponseWriter, err error) {

	w.Header().Set("Content-Type", "application/json")

	var clientError *customerrors.ClientError
	if ok := errors.As(err, &clientError); ok {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(APIResponse{
			Success: false,
			Message: clientError.ErrorMessage.Message,
			Data: struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			}{
				Code:        clientError.ErrorMessage.Code,
				Description: clientError.ErrorMessage.Description,
			},
		})
		return
	}

	log.GetLogger().Error("Request failed", log.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Message: "Internal server error",
	})
}

// WriteBadRequest writes a BadRequest client error with the given description.
func WriteBadRequest(w http.ResponseWriter, description string) {

	HandleError(w, customerrors.NewClientError(customerrors.ErrorMessage{
		Code:        customerrors.BAD_REQUEST.Code,
		Message:     customerrors.BAD_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest))
}

// HandleDecodeError turns a JSON decode failure into a request-friendly
// description without leaking decoder internals.
func HandleDecodeError(err error, resource string) string {

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON in %s payload.", resource)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("Invalid value for field %q in %s payload.", typeErr.Field, resource)
	case strings.Contains(err.Error(), "unknown field"):
		return fmt.Sprintf("Unknown field in %s payload: %s.", resource, err.Error())
	default:
		return fmt.Sprintf("Invalid %s payload.", resource)
	}
}
