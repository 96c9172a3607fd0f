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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/veridata/entity-cleanup-service/internal/classifier"
	"github.com/veridata/entity-cleanup-service/internal/query"
	"github.com/veridata/entity-cleanup-service/internal/system/config"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/security"
	"github.com/veridata/entity-cleanup-service/internal/system/utils"
)

type questionRequest struct {
	Question string `json:"question"`
}

// QueryHandler serves the natural-language query endpoint.
type QueryHandler struct {
	queryService *query.Service
}

// NewQueryHandler creates a new instance of QueryHandler.
func NewQueryHandler() *QueryHandler {

	completer := classifier.NewOpenAIClient(config.GetRuntime().Config.Classifier)
	return &QueryHandler{
		queryService: query.NewService(completer),
	}
}

// HandleQuery forwards a free-form question and returns the markdown answer.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	var req questionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "natural query"),
		}, http.StatusBadRequest))
		return
	}

	answer, err := h.queryService.Ask(r.Context(), req.Question)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, "query answered", answer)
}
