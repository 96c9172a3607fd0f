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

package model

import (
	"net/http"

	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// FieldChange records one consolidated field as a before/after pair, so the
// orchestrator and tests can reason about exactly what a merge changes.
type FieldChange struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Recommendation is the decision payload produced by the external classifier
// for one candidate duplicate group: which entity survives, which are
// removed, and why.
type Recommendation struct {
	Keep        int64                  `json:"keep"`
	Remove      []int64                `json:"remove"`
	NeedsReview bool                   `json:"needsReview"`
	Suggestions string                 `json:"suggestions"`
	Changes     map[string]FieldChange `json:"changes,omitempty"`
}

// Validate enforces the structural invariants of a recommendation. All
// violations are client errors and are raised before any store call.
func (r *Recommendation) Validate() error {

	if r.Keep <= 0 {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "A merge recommendation must name the entity to keep.",
		}, http.StatusBadRequest)
	}
	if len(r.Remove) == 0 {
		return errors.NewClientError(errors.EMPTY_REMOVE_SET, http.StatusBadRequest)
	}
	for _, id := range r.Remove {
		if id == r.Keep {
			return errors.NewClientError(errors.KEEP_IN_REMOVE_SET, http.StatusBadRequest)
		}
	}
	return nil
}

// RemoveSet returns the removal ids as a set.
func (r *Recommendation) RemoveSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(r.Remove))
	for _, id := range r.Remove {
		set[id] = struct{}{}
	}
	return set
}

// DeletionPlan is the derived companion of a recommendation: the row ids,
// grouped by table, that must be removed when the recommendation is applied.
type DeletionPlan struct {
	RetainedEntityID int64              `json:"retained_entity_id"`
	DeletedEntityIDs []int64            `json:"deleted_entity_ids"`
	TablesToCleanup  map[string][]int64 `json:"tables_to_cleanup"`
}

// MergedEntity is the consolidated record the classifier proposes for the
// retained entity. Child collections are already unioned and de-duplicated
// by the recommender; applying them is a full replace, not a patch.
type MergedEntity = entitymodel.Entity

// DuplicateGroup bundles the recommendation, consolidated record and
// deletion plan for one candidate group.
type DuplicateGroup struct {
	Decision     Recommendation `json:"aiDecision"`
	MergedEntity MergedEntity   `json:"mergedEntity"`
	DeletionPlan DeletionPlan   `json:"deletionPlan"`
}

// AnalysisResult is the classifier's full response for one analysis run.
type AnalysisResult struct {
	Grouped              []DuplicateGroup `json:"grouped"`
	TotalFound           int              `json:"totalFound"`
	DuplicateGroupsCount int              `json:"duplicateGroupsCount"`
}

// ApplyOutcome reports the result of applying one duplicate group. Groups
// are independent; one group's failure never affects its siblings.
type ApplyOutcome struct {
	RetainedEntityID int64  `json:"retained_entity_id"`
	Success          bool   `json:"success"`
	AlreadyApplied   bool   `json:"already_applied,omitempty"`
	Message          string `json:"message,omitempty"`
	Err              error  `json:"-"`
}
