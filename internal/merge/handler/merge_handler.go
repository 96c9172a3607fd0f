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

	"github.com/go-playground/validator/v10"
	"github.com/veridata/entity-cleanup-service/internal/classifier"
	entityservice "github.com/veridata/entity-cleanup-service/internal/entity/service"
	"github.com/veridata/entity-cleanup-service/internal/entity/store"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/service"
	"github.com/veridata/entity-cleanup-service/internal/merge/session"
	mergestore "github.com/veridata/entity-cleanup-service/internal/merge/store"
	"github.com/veridata/entity-cleanup-service/internal/system/config"
	cecontext "github.com/veridata/entity-cleanup-service/internal/system/context"
	"github.com/veridata/entity-cleanup-service/internal/system/database/lock"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
	"github.com/veridata/entity-cleanup-service/internal/system/security"
	"github.com/veridata/entity-cleanup-service/internal/system/utils"
)

// analyzeResponse bundles the analysis with the review state of each group.
type analyzeResponse struct {
	*model.AnalysisResult
	States []model.ReviewState `json:"states"`
}

// MergeHandler serves duplicate analysis and merge application endpoints.
type MergeHandler struct {
	entityService *entityservice.EntityService
	analyzer      *classifier.Analyzer
	orchestrator  *service.Orchestrator
	session       *session.Session
	validate      *validator.Validate
}

// NewMergeHandler wires the full analysis and apply pipeline from the
// runtime configuration.
func NewMergeHandler() *MergeHandler {

	completer := classifier.NewOpenAIClient(config.GetRuntime().Config.Classifier)
	entityStore := store.NewEntityStore()

	return &MergeHandler{
		entityService: entityservice.NewEntityService(),
		analyzer:      classifier.NewAnalyzer(completer),
		orchestrator:  service.NewOrchestrator(entityStore, mergestore.NewMergeStore(), lock.NewPostgresLock()),
		session:       session.NewSession(),
		validate:      validator.New(),
	}
}

// HandleAnalyze runs a duplicate analysis and installs it as the current
// session. A name in the request narrows the analysis to one candidate set;
// otherwise every duplicate name of the type is analyzed.
func (h *MergeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	var req model.AnalyzeAPIRequest
	if !h.decode(w, r, &req, "analyze request") {
		return
	}

	names := []string{req.Name}
	if req.Name == "" {
		duplicateNames, err := h.entityService.GetDuplicateNames(r.Context(), req.Type)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		names = duplicateNames
	}

	combined := &model.AnalysisResult{Grouped: []model.DuplicateGroup{}}
	for _, name := range names {
		candidates, err := h.entityService.GetCandidatesByName(r.Context(), name, req.Type)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		result, err := h.analyzer.AnalyzeDuplicates(r.Context(), candidates.Entities)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		combined.Grouped = append(combined.Grouped, result.Grouped...)
		combined.TotalFound += len(candidates.Entities)
	}
	combined.DuplicateGroupsCount = len(combined.Grouped)

	h.session.Init(combined)
	_, states, err := h.session.Snapshot()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Info("Analysis session initialized",
		log.String("trace_id", cecontext.GetTraceID(r.Context())),
		log.Int("duplicate_groups", combined.DuplicateGroupsCount))
	utils.RespondJSON(w, http.StatusOK, "duplicate analysis", analyzeResponse{
		AnalysisResult: combined,
		States:         states,
	})
}

// HandleApprove records operator confirmation for a needs-review group.
func (h *MergeHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	var req model.ApproveAPIRequest
	if !h.decode(w, r, &req, "approve request") {
		return
	}

	state, err := h.session.Approve(*req.GroupIndex)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, "group approved", map[string]interface{}{
		"group_index": *req.GroupIndex,
		"state":       state,
	})
}

// HandleResolve applies one caller-supplied merge directly.
func (h *MergeHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	var req model.ResolveAPIRequest
	if !h.decode(w, r, &req, "resolve request") {
		return
	}

	group := req.Group()
	outcome, _ := h.orchestrator.ApplyMerge(r.Context(), &group, model.AutoMergeable)
	if !outcome.Success {
		utils.HandleError(w, outcome.Err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, outcome.Message, outcome)
}

// HandleResolveBatch applies groups of the current analysis session. An
// empty index list applies every group; outcomes are reported per group.
func (h *MergeHandler) HandleResolveBatch(w http.ResponseWriter, r *http.Request) {

	if err := security.Authn(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	req := model.BatchResolveAPIRequest{}
	if r.ContentLength > 0 && !h.decode(w, r, &req, "batch resolve request") {
		return
	}

	result, states, err := h.session.Snapshot()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	indexes := req.GroupIndexes
	if len(indexes) == 0 {
		indexes = make([]int, len(result.Grouped))
		for i := range indexes {
			indexes[i] = i
		}
	}

	groups := make([]model.DuplicateGroup, 0, len(indexes))
	groupStates := make([]model.ReviewState, 0, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(result.Grouped) {
			utils.WriteBadRequest(w, "group index out of range")
			return
		}
		groups = append(groups, result.Grouped[idx])
		groupStates = append(groupStates, states[idx])
	}

	outcomes, finalStates := h.orchestrator.ApplyAll(r.Context(), groups, groupStates)
	for i, idx := range indexes {
		h.session.SetState(idx, finalStates[i])
	}

	utils.RespondJSON(w, http.StatusOK, "batch merge applied", map[string]interface{}{
		"outcomes": outcomes,
		"states":   finalStates,
	})
}

// decode parses and validates a JSON request body. Returns false after
// writing the error response when the payload is unusable.
func (h *MergeHandler) decode(w http.ResponseWriter, r *http.Request, target interface{}, resource string) bool {

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, resource),
		}, http.StatusBadRequest))
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: err.Error(),
		}, http.StatusBadRequest))
		return false
	}
	return true
}
