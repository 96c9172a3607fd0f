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

// Package plan derives and validates deletion plans for merge
// recommendations. Derivation and validation are pure; no store mutation
// ever happens here.
package plan

import (
	"fmt"
	"net/http"
	"sort"

	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// Derive builds the deletion plan for a recommendation from the current row
// ownership. The derivation is deterministic: the same recommendation and
// ownership always yield the same plan, with row ids in ascending order.
func Derive(rec *model.Recommendation, owned entitymodel.OwnedRows) (*model.DeletionPlan, error) {

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	removeSet := rec.RemoveSet()
	p := &model.DeletionPlan{
		RetainedEntityID: rec.Keep,
		DeletedEntityIDs: sortedIDs(removeSet),
		TablesToCleanup:  map[string][]int64{},
	}

	for table, rows := range owned {
		var ids []int64
		for rowID, owner := range rows {
			if _, gone := removeSet[owner]; gone {
				ids = append(ids, rowID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		p.TablesToCleanup[table] = ids
	}

	return p, nil
}

// Validate checks a caller-supplied plan against its recommendation and the
// current row ownership. A plan whose deleted ids diverge from the
// recommendation's remove set fails with PlanMismatch; a plan listing rows
// owned by entities outside that set fails with ForeignRowLeak.
func Validate(rec *model.Recommendation, p *model.DeletionPlan, owned entitymodel.OwnedRows) error {

	if err := rec.Validate(); err != nil {
		return err
	}

	if p.RetainedEntityID != rec.Keep {
		return planMismatch(fmt.Sprintf("plan retains entity %d but the recommendation keeps %d",
			p.RetainedEntityID, rec.Keep))
	}

	removeSet := rec.RemoveSet()
	if len(p.DeletedEntityIDs) != len(removeSet) {
		return planMismatch("plan deleted_entity_ids must equal the recommendation's remove set")
	}
	for _, id := range p.DeletedEntityIDs {
		if _, ok := removeSet[id]; !ok {
			return planMismatch(fmt.Sprintf("plan deletes entity %d which the recommendation does not remove", id))
		}
	}

	for table, rowIDs := range p.TablesToCleanup {
		for _, rowID := range rowIDs {
			owner, known := owned.Owner(table, rowID)
			if !known {
				// Row already gone: tolerated, the apply is idempotent.
				continue
			}
			if _, gone := removeSet[owner]; !gone {
				return errors.NewClientError(errors.ErrorMessage{
					Code:    errors.FOREIGN_ROW_LEAK.Code,
					Message: errors.FOREIGN_ROW_LEAK.Message,
					Description: fmt.Sprintf("row %d in table %q belongs to entity %d, which is not in the removal set",
						rowID, table, owner),
				}, http.StatusBadRequest)
			}
		}
	}

	return nil
}

// Resolve returns a validated plan for the recommendation: the supplied plan
// when one is given, otherwise a freshly derived one.
func Resolve(rec *model.Recommendation, supplied *model.DeletionPlan, owned entitymodel.OwnedRows) (*model.DeletionPlan, error) {

	if supplied == nil || isEmptyPlan(supplied) {
		return Derive(rec, owned)
	}
	if err := Validate(rec, supplied, owned); err != nil {
		return nil, err
	}
	return supplied, nil
}

func isEmptyPlan(p *model.DeletionPlan) bool {
	return p.RetainedEntityID == 0 && len(p.DeletedEntityIDs) == 0 && len(p.TablesToCleanup) == 0
}

func planMismatch(description string) error {
	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.PLAN_MISMATCH.Code,
		Message:     errors.PLAN_MISMATCH.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
