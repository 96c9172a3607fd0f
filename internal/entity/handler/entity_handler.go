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
	"net/http"
	"strconv"
	"strings"

	"github.com/veridata/entity-cleanup-service/internal/entity/service"
	"github.com/veridata/entity-cleanup-service/internal/system/security"
	"github.com/veridata/entity-cleanup-service/internal/system/utils"
)

// EntityHandler serves the duplicate-candidate read endpoints.
type EntityHandler struct {
	entityService *service.EntityService
}

// NewEntityHandler creates a new instance of EntityHandler.
func NewEntityHandler() *EntityHandler {

	return &EntityHandler{
		entityService: service.NewEntityService(),
	}
}

// HandleSimilarByName returns the names shared by more than one live entity
// of the type given as the trailing path segment.
func (h *EntityHandler) HandleSimilarByName(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	segment := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	entityType, err := strconv.Atoi(segment)
	if err != nil {
		utils.WriteBadRequest(w, "entity type must be an integer")
		return
	}

	names, err := h.entityService.GetDuplicateNames(r.Context(), entityType)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, "duplicate entity names", names)
}

// HandleByName returns the candidate entities sharing the name given as the
// trailing path segment, with their conflict report.
func (h *EntityHandler) HandleByName(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	if name == "" {
		utils.WriteBadRequest(w, "entity name must not be empty")
		return
	}
	entityType, err := strconv.Atoi(r.URL.Query().Get("type"))
	if err != nil {
		utils.WriteBadRequest(w, "query parameter type must be an integer")
		return
	}

	candidates, err := h.entityService.GetCandidatesByName(r.Context(), name, entityType)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, "candidate entities", candidates)
}
