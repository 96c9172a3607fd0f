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

package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// fakeStore is an in-memory stand-in for the entity and merge stores.
type fakeStore struct {
	mu         sync.Mutex
	entities   map[int64]*entitymodel.Entity
	failOnKeep map[int64]error
	readCalls  int
	writeCalls int
	nextRowID  int64
}

func newFakeStore(entities ...*entitymodel.Entity) *fakeStore {
	s := &fakeStore{
		entities:   map[int64]*entitymodel.Entity{},
		failOnKeep: map[int64]error{},
		nextRowID:  1000,
	}
	for _, e := range entities {
		s.entities[e.EntityID] = e
	}
	return s
}

func (s *fakeStore) GetEntityByID(_ context.Context, id int64) (*entitymodel.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCalls++
	e, ok := s.entities[id]
	if !ok || e.IsDeleted {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) GetOwnedRows(_ context.Context, ids []int64) (entitymodel.OwnedRows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCalls++
	owned := entitymodel.OwnedRows{
		"entity":          map[int64]int64{},
		"entity_property": map[int64]int64{},
		"address":         map[int64]int64{},
	}
	for _, id := range ids {
		e, ok := s.entities[id]
		if !ok || e.IsDeleted {
			continue
		}
		owned["entity"][id] = id
		for _, p := range e.Property {
			owned["entity_property"][p.EntityPropertyID] = id
		}
		for _, a := range e.Address {
			owned["address"][a.AddressID] = id
		}
	}
	return owned, nil
}

func (s *fakeStore) ApplyMerge(_ context.Context, keep int64, merged *model.MergedEntity, p *model.DeletionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeCalls++

	if err, ok := s.failOnKeep[keep]; ok {
		return err
	}

	target := s.entities[keep]
	if merged.Name != "" {
		target.Name = merged.Name
	}
	if merged.TradeName != nil {
		target.TradeName = merged.TradeName
	}
	target.People = nil
	target.Address = nil
	target.Property = nil
	for _, person := range merged.People {
		s.nextRowID++
		person.PeopleID = s.nextRowID
		person.EntityID = keep
		target.People = append(target.People, person)
	}
	for _, address := range merged.Address {
		s.nextRowID++
		address.AddressID = s.nextRowID
		address.EntityID = keep
		target.Address = append(target.Address, address)
	}
	for _, property := range merged.Property {
		s.nextRowID++
		property.EntityPropertyID = s.nextRowID
		property.EntityID = keep
		target.Property = append(target.Property, property)
	}

	for _, id := range p.DeletedEntityIDs {
		if e, ok := s.entities[id]; ok {
			e.IsDeleted = true
			e.People = nil
			e.Address = nil
			e.Property = nil
		}
	}
	return nil
}

func org(id int64, name string) *entitymodel.Entity {
	return &entitymodel.Entity{EntityID: id, Type: 1, Name: name}
}

func groupFixture(keep int64, remove ...int64) model.DuplicateGroup {
	trade := "Acme"
	return model.DuplicateGroup{
		Decision: model.Recommendation{Keep: keep, Remove: remove, Suggestions: "same org, differing rows"},
		MergedEntity: model.MergedEntity{
			Name:      "Acme Inc",
			TradeName: &trade,
			Address: []entitymodel.Address{
				{LineOne: "1 Main St", Country: "US"},
				{LineOne: "2 Side St", Country: "US"},
			},
		},
	}
}

func TestApplyMerge_Success(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"), org(12, "Acme Inc"))
	store.entities[11].Address = []entitymodel.Address{{AddressID: 211, EntityID: 11, LineOne: "old", Country: "US"}}
	orch := NewOrchestrator(store, store, nil)

	group := groupFixture(10, 11, 12)
	outcome, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)

	require.True(t, outcome.Success, outcome.Message)
	assert.Equal(t, model.Applied, state)
	assert.Equal(t, int64(10), outcome.RetainedEntityID)

	// Retained entity carries the two merged addresses.
	assert.Len(t, store.entities[10].Address, 2)
	// Superseded entities are soft-deleted with their rows gone.
	assert.True(t, store.entities[11].IsDeleted)
	assert.True(t, store.entities[12].IsDeleted)
	assert.Empty(t, store.entities[11].Address)

	// Re-deriving ownership for the removed entities now yields nothing.
	owned, err := store.GetOwnedRows(context.Background(), []int64{11, 12})
	require.NoError(t, err)
	assert.Empty(t, owned["address"])
	assert.Empty(t, owned["entity"])
}

func TestApplyMerge_Idempotent(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"))
	orch := NewOrchestrator(store, store, nil)

	group := groupFixture(10, 11)
	first, _ := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)
	require.True(t, first.Success)
	writesAfterFirst := store.writeCalls

	second, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)
	require.True(t, second.Success)
	assert.True(t, second.AlreadyApplied)
	assert.Equal(t, model.Applied, state)
	// The second apply is a no-op: no further writes, no error.
	assert.Equal(t, writesAfterFirst, store.writeCalls)
}

func TestApplyMerge_EmptyRemoveSetRejectedBeforeStore(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"))
	orch := NewOrchestrator(store, store, nil)

	group := model.DuplicateGroup{Decision: model.Recommendation{Keep: 10}}
	outcome, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)

	require.False(t, outcome.Success)
	clientErr, ok := outcome.Err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors2.EMPTY_REMOVE_SET.Code, clientErr.Code)
	assert.Equal(t, model.Failed, state)
	// Validation failures never reach the store.
	assert.Zero(t, store.readCalls)
	assert.Zero(t, store.writeCalls)
}

func TestApplyMerge_RetainedEntityMissing(t *testing.T) {
	store := newFakeStore(org(11, "Acme Inc"))
	orch := NewOrchestrator(store, store, nil)

	group := groupFixture(10, 11)
	outcome, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)

	require.False(t, outcome.Success)
	clientErr, ok := outcome.Err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors2.ENTITY_NOT_FOUND.Code, clientErr.Code)
	assert.Equal(t, model.Failed, state)
}

func TestApplyMerge_PlanListingRetainedRowsRejected(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"))
	store.entities[10].Address = []entitymodel.Address{{AddressID: 201, EntityID: 10, LineOne: "1 Main St", Country: "US"}}
	store.entities[11].Address = []entitymodel.Address{{AddressID: 211, EntityID: 11, LineOne: "2 Side St", Country: "US"}}
	orch := NewOrchestrator(store, store, nil)

	// The supplied plan smuggles in address 201, owned by the retained entity.
	group := groupFixture(10, 11)
	group.DeletionPlan = model.DeletionPlan{
		RetainedEntityID: 10,
		DeletedEntityIDs: []int64{11},
		TablesToCleanup:  map[string][]int64{"address": {201, 211}},
	}

	outcome, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)

	require.False(t, outcome.Success)
	clientErr, ok := outcome.Err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors2.FOREIGN_ROW_LEAK.Code, clientErr.Code)
	assert.Equal(t, model.Failed, state)
	// The retained entity's rows never reach the writer.
	assert.Zero(t, store.writeCalls)
	assert.Len(t, store.entities[10].Address, 1)
	assert.False(t, store.entities[11].IsDeleted)
}

func TestApplyMerge_ReviewGate(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"))
	orch := NewOrchestrator(store, store, nil)
	group := groupFixture(10, 11)

	// A group that needs review cannot be applied without approval.
	outcome, state := orch.ApplyMerge(context.Background(), &group, model.NeedsReview)
	require.False(t, outcome.Success)
	assert.Equal(t, model.NeedsReview, state)
	assert.Zero(t, store.writeCalls)

	// Operator confirmation unlocks the apply.
	approved, err := model.NeedsReview.Approve()
	require.NoError(t, err)
	outcome, state = orch.ApplyMerge(context.Background(), &group, approved)
	require.True(t, outcome.Success)
	assert.Equal(t, model.Applied, state)
}

func TestApplyMerge_FailedGroupCanRetry(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"))
	store.failOnKeep[10] = errors2.NewServerError(errors2.APPLY_MERGE, assert.AnError)
	orch := NewOrchestrator(store, store, nil)
	group := groupFixture(10, 11)

	outcome, state := orch.ApplyMerge(context.Background(), &group, model.AutoMergeable)
	require.False(t, outcome.Success)
	require.Equal(t, model.Failed, state)

	// Clearing the store fault and retrying re-enters the approved path.
	delete(store.failOnKeep, 10)
	retryState, err := state.Retry()
	require.NoError(t, err)
	outcome, state = orch.ApplyMerge(context.Background(), &group, retryState)
	assert.True(t, outcome.Success)
	assert.Equal(t, model.Applied, state)
}

func TestApplyAll_GroupsAreIndependent(t *testing.T) {
	store := newFakeStore(
		org(10, "Acme Inc"), org(11, "Acme Inc"),
		org(20, "Globex"), org(21, "Globex"),
		org(30, "Initech"), org(31, "Initech"),
	)
	store.failOnKeep[20] = errors2.NewServerError(errors2.APPLY_MERGE, assert.AnError)
	orch := NewOrchestrator(store, store, nil)

	groups := []model.DuplicateGroup{
		groupFixture(10, 11),
		groupFixture(20, 21),
		groupFixture(30, 31),
	}
	outcomes, states := orch.ApplyAll(context.Background(), groups, nil)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	assert.True(t, outcomes[2].Success)
	assert.Equal(t, model.Applied, states[0])
	assert.Equal(t, model.Failed, states[1])
	assert.Equal(t, model.Applied, states[2])

	// The failing group left its entities untouched; siblings applied.
	assert.True(t, store.entities[11].IsDeleted)
	assert.False(t, store.entities[21].IsDeleted)
	assert.True(t, store.entities[31].IsDeleted)
}

func TestApplyAll_CompletesDespiteCancelledContext(t *testing.T) {
	store := newFakeStore(org(10, "Acme Inc"), org(11, "Acme Inc"))
	orch := NewOrchestrator(store, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	groups := []model.DuplicateGroup{groupFixture(10, 11)}
	outcomes, _ := orch.ApplyAll(ctx, groups, nil)

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)
}
