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

// AnalyzeAPIRequest asks for a duplicate analysis over one entity type,
// optionally narrowed to a single display name.
type AnalyzeAPIRequest struct {
	Type int    `json:"type" validate:"required,oneof=1 2"`
	Name string `json:"name,omitempty"`
}

// ApproveAPIRequest confirms one needs-review group of the current analysis.
// GroupIndex is a pointer so index zero survives required-field validation.
type ApproveAPIRequest struct {
	GroupIndex *int `json:"group_index" validate:"required,gte=0"`
}

// ResolveAPIRequest applies a single merge directly, without an analysis
// session. The caller supplies the full recommendation.
type ResolveAPIRequest struct {
	KeepEntityID    int64         `json:"keep_entity_id" validate:"required,gt=0"`
	RemoveEntityIDs []int64       `json:"remove_entity_ids" validate:"required,min=1,dive,gt=0"`
	Suggestions     string        `json:"suggestions,omitempty"`
	MergedEntity    MergedEntity  `json:"merged_entity"`
	DeletionPlan    *DeletionPlan `json:"deletion_plan,omitempty"`
}

// Group converts the request into the orchestrator's group form.
func (r *ResolveAPIRequest) Group() DuplicateGroup {

	group := DuplicateGroup{
		Decision: Recommendation{
			Keep:        r.KeepEntityID,
			Remove:      r.RemoveEntityIDs,
			Suggestions: r.Suggestions,
		},
		MergedEntity: r.MergedEntity,
	}
	if r.DeletionPlan != nil {
		group.DeletionPlan = *r.DeletionPlan
	}
	return group
}

// BatchResolveAPIRequest applies groups from the current analysis session.
// An empty index list means every group.
type BatchResolveAPIRequest struct {
	GroupIndexes []int `json:"group_indexes,omitempty" validate:"omitempty,dive,gte=0"`
}
