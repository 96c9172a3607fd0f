/*
 * Copyright (c) 2026, Veridata Inc. (https://www.veridata.io).
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

package plan

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

func ownedFixture() entitymodel.OwnedRows {
	return entitymodel.OwnedRows{
		"entity": {
			10: 10, 11: 11, 12: 12,
		},
		"entity_property": {
			101: 10, 111: 11, 112: 11, 121: 12,
		},
		"address": {
			201: 10, 211: 11,
		},
	}
}

func requireClientCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok, "expected a ClientError, got %T", err)
	assert.Equal(t, code, clientErr.Code)
	assert.Equal(t, status, clientErr.StatusCode)
}

func TestDerive(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}

	p, err := Derive(rec, ownedFixture())
	require.NoError(t, err)

	assert.Equal(t, int64(10), p.RetainedEntityID)
	assert.Equal(t, []int64{11, 12}, p.DeletedEntityIDs)
	assert.Equal(t, []int64{11, 12}, p.TablesToCleanup["entity"])
	assert.Equal(t, []int64{111, 112, 121}, p.TablesToCleanup["entity_property"])
	assert.Equal(t, []int64{211}, p.TablesToCleanup["address"])

	// Rows owned by the retained entity never appear in the plan.
	assert.NotContains(t, p.TablesToCleanup["entity_property"], int64(101))
	assert.NotContains(t, p.TablesToCleanup["address"], int64(201))
}

func TestDerive_Deterministic(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{12, 11}}

	first, err := Derive(rec, ownedFixture())
	require.NoError(t, err)
	second, err := Derive(rec, ownedFixture())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDerive_EmptyRemoveSet(t *testing.T) {
	rec := &model.Recommendation{Keep: 10}

	_, err := Derive(rec, ownedFixture())
	requireClientCode(t, err, errors.EMPTY_REMOVE_SET.Code, http.StatusBadRequest)
}

func TestDerive_KeepInRemoveSet(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{10, 11}}

	_, err := Derive(rec, ownedFixture())
	requireClientCode(t, err, errors.KEEP_IN_REMOVE_SET.Code, http.StatusBadRequest)
}

func TestValidate_AcceptsDerivedPlan(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}
	p, err := Derive(rec, ownedFixture())
	require.NoError(t, err)

	assert.NoError(t, Validate(rec, p, ownedFixture()))
}

func TestValidate_PlanMismatch(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}

	tests := []struct {
		name string
		plan model.DeletionPlan
	}{
		{"wrong retained entity", model.DeletionPlan{
			RetainedEntityID: 11, DeletedEntityIDs: []int64{11, 12},
		}},
		{"missing deleted id", model.DeletionPlan{
			RetainedEntityID: 10, DeletedEntityIDs: []int64{11},
		}},
		{"extra deleted id", model.DeletionPlan{
			RetainedEntityID: 10, DeletedEntityIDs: []int64{11, 12, 13},
		}},
		{"deleted id outside remove set", model.DeletionPlan{
			RetainedEntityID: 10, DeletedEntityIDs: []int64{11, 13},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(rec, &tt.plan, ownedFixture())
			requireClientCode(t, err, errors.PLAN_MISMATCH.Code, http.StatusBadRequest)
		})
	}
}

func TestValidate_ForeignRowLeak(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}
	p := model.DeletionPlan{
		RetainedEntityID: 10,
		DeletedEntityIDs: []int64{11, 12},
		TablesToCleanup: map[string][]int64{
			// 201 belongs to the retained entity 10.
			"address": {201, 211},
		},
	}

	err := Validate(rec, &p, ownedFixture())
	requireClientCode(t, err, errors.FOREIGN_ROW_LEAK.Code, http.StatusBadRequest)
}

func TestValidate_ToleratesAlreadyDeletedRows(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}
	p := model.DeletionPlan{
		RetainedEntityID: 10,
		DeletedEntityIDs: []int64{11, 12},
		TablesToCleanup: map[string][]int64{
			// 999 is not in the ownership snapshot: already deleted upstream.
			"address": {211, 999},
		},
	}

	assert.NoError(t, Validate(rec, &p, ownedFixture()))
}

func TestResolve(t *testing.T) {
	rec := &model.Recommendation{Keep: 10, Remove: []int64{11, 12}}

	t.Run("derives when no plan supplied", func(t *testing.T) {
		p, err := Resolve(rec, nil, ownedFixture())
		require.NoError(t, err)
		assert.Equal(t, int64(10), p.RetainedEntityID)
	})

	t.Run("derives when empty plan supplied", func(t *testing.T) {
		p, err := Resolve(rec, &model.DeletionPlan{}, ownedFixture())
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 12}, p.DeletedEntityIDs)
	})

	t.Run("rejects tampered plan", func(t *testing.T) {
		tampered := &model.DeletionPlan{RetainedEntityID: 10, DeletedEntityIDs: []int64{13}}
		_, err := Resolve(rec, tampered, ownedFixture())
		requireClientCode(t, err, errors.PLAN_MISMATCH.Code, http.StatusBadRequest)
	})
}
