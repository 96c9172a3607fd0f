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

package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/plan"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
	"github.com/veridata/entity-cleanup-service/internal/system/database/lock"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

// EntityReader re-fetches live entity state at the start of each group apply.
// The engine does not assume serializable isolation, so it never trusts a
// stale read.
type EntityReader interface {
	GetEntityByID(ctx context.Context, entityID int64) (*entitymodel.Entity, error)
	GetOwnedRows(ctx context.Context, entityIDs []int64) (entitymodel.OwnedRows, error)
}

// MergeWriter applies the consolidated write and deletion plan against the
// store.
type MergeWriter interface {
	ApplyMerge(ctx context.Context, keep int64, merged *model.MergedEntity, p *model.DeletionPlan) error
}

// Orchestrator validates merge recommendations against live store state and
// applies them. Groups are independent: a failure in one never rolls back or
// blocks another.
type Orchestrator struct {
	entities EntityReader
	writer   MergeWriter
	locks    lock.DistributedLock
	keyed    keyedMutex
}

// NewOrchestrator wires an orchestrator over the given store accessors.
// distributedLock may be nil when the deployment runs a single instance.
func NewOrchestrator(entities EntityReader, writer MergeWriter, distributedLock lock.DistributedLock) *Orchestrator {

	return &Orchestrator{
		entities: entities,
		writer:   writer,
		locks:    distributedLock,
	}
}

// ApplyMerge applies one duplicate group. It returns the group outcome plus
// the review state after the attempt.
//
// Already-removed entities make the apply an idempotent no-op success rather
// than an error, so retries after a partial batch are safe.
func (o *Orchestrator) ApplyMerge(ctx context.Context, group *model.DuplicateGroup, state model.ReviewState) (model.ApplyOutcome, model.ReviewState) {

	rec := &group.Decision

	if err := state.BeginApply(); err != nil {
		return failure(rec.Keep, err), state
	}

	// Fail fast on structural problems before any store call is made.
	if err := rec.Validate(); err != nil {
		return failure(rec.Keep, err), state.Complete(false)
	}

	// At most one mutation per retained entity, in-process and, when
	// configured, across instances.
	unlock := o.keyed.lock(rec.Keep)
	defer unlock()
	if o.locks != nil {
		release, err := o.acquireDistributed(ctx, rec.Keep)
		if err != nil {
			return failure(rec.Keep, err), state.Complete(false)
		}
		defer release()
	}

	outcome := o.applyLocked(ctx, group)
	return outcome, state.Complete(outcome.Success)
}

func (o *Orchestrator) applyLocked(ctx context.Context, group *model.DuplicateGroup) model.ApplyOutcome {

	logger := log.GetLogger()
	rec := &group.Decision

	keep, err := o.entities.GetEntityByID(ctx, rec.Keep)
	if err != nil {
		return failure(rec.Keep, err)
	}
	if keep == nil {
		return failure(rec.Keep, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.ENTITY_NOT_FOUND.Code,
			Message:     errors2.ENTITY_NOT_FOUND.Message,
			Description: fmt.Sprintf("retained entity %d no longer exists", rec.Keep),
		}, http.StatusNotFound))
	}

	liveRemoves := make([]int64, 0, len(rec.Remove))
	for _, id := range rec.Remove {
		e, err := o.entities.GetEntityByID(ctx, id)
		if err != nil {
			return failure(rec.Keep, err)
		}
		if e != nil {
			liveRemoves = append(liveRemoves, id)
		}
	}
	if len(liveRemoves) == 0 {
		// Every superseded entity is already gone: the recommendation has
		// been applied before.
		logger.Debug("Merge already applied", log.Int64("retained_entity_id", rec.Keep))
		return model.ApplyOutcome{
			RetainedEntityID: rec.Keep,
			Success:          true,
			AlreadyApplied:   true,
			Message:          "merge already applied",
		}
	}

	// The ownership snapshot must cover the retained entity as well: a
	// supplied plan listing one of its rows is a foreign-row leak, not an
	// already-deleted row.
	owned, err := o.entities.GetOwnedRows(ctx, append([]int64{rec.Keep}, liveRemoves...))
	if err != nil {
		return failure(rec.Keep, err)
	}

	resolved, err := plan.Resolve(rec, &group.DeletionPlan, owned)
	if err != nil {
		return failure(rec.Keep, err)
	}

	if err := o.writer.ApplyMerge(ctx, rec.Keep, &group.MergedEntity, resolved); err != nil {
		return failure(rec.Keep, err)
	}

	return model.ApplyOutcome{
		RetainedEntityID: rec.Keep,
		Success:          true,
		Message:          fmt.Sprintf("merged %d entities into %d", len(rec.Remove), rec.Keep),
	}
}

// ApplyAll applies several duplicate groups concurrently. Each group is
// processed independently and the caller receives a per-group outcome list,
// never an all-or-nothing result.
//
// In-flight group applications run to completion even if the caller's
// context is torn down mid-batch, so a cancelled session cannot leave a
// group in an intermediate state.
func (o *Orchestrator) ApplyAll(ctx context.Context, groups []model.DuplicateGroup, states []model.ReviewState) ([]model.ApplyOutcome, []model.ReviewState) {

	detached := context.WithoutCancel(ctx)
	outcomes := make([]model.ApplyOutcome, len(groups))
	finalStates := make([]model.ReviewState, len(groups))

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := model.AutoMergeable
			if states != nil {
				state = states[i]
			}
			outcomes[i], finalStates[i] = o.ApplyMerge(detached, &groups[i], state)
		}(i)
	}
	wg.Wait()

	return outcomes, finalStates
}

func (o *Orchestrator) acquireDistributed(ctx context.Context, keep int64) (func(), error) {

	key := fmt.Sprintf("merge:entity:%d", keep)
	for attempt := 0; attempt < constants.MaxLockRetryAttempts; attempt++ {
		acquired, err := o.locks.Acquire(ctx, key)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() {
				if err := o.locks.Release(context.WithoutCancel(ctx), key); err != nil {
					log.GetLogger().Warn("Failed to release merge lock", log.String("key", key), log.Error(err))
				}
			}, nil
		}
		time.Sleep(constants.LockRetryDelayMillis * time.Millisecond)
	}
	return nil, errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.LOCK_ACQUIRE.Code,
		Message:     errors2.LOCK_ACQUIRE.Message,
		Description: fmt.Sprintf("could not acquire merge lock for entity %d", keep),
	}, nil)
}

func failure(keep int64, err error) model.ApplyOutcome {
	return model.ApplyOutcome{
		RetainedEntityID: keep,
		Success:          false,
		Message:          err.Error(),
		Err:              err,
	}
}

// keyedMutex serializes appliers that target the same retained entity.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
