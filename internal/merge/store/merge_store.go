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

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
	"github.com/veridata/entity-cleanup-service/internal/system/database/provider"
	"github.com/veridata/entity-cleanup-service/internal/system/database/scripts"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

// MergeStore applies a merge recommendation against Postgres in a single
// transaction.
type MergeStore struct {
	dbProvider provider.DBProviderInterface
}

// NewMergeStore creates a new instance of MergeStore.
func NewMergeStore() *MergeStore {

	return &MergeStore{
		dbProvider: provider.NewDBProvider(),
	}
}

// ApplyMerge writes the consolidated record onto the retained entity,
// executes the deletion plan and soft-deletes the removed entities.
//
// Statement order is failure-safe on its own: the retained entity is written
// before anything is deleted, and child rows go before their parent
// soft-delete, so a crash mid-sequence never leaves a reference to an entity
// that is already gone.
func (s *MergeStore) ApplyMerge(ctx context.Context, keep int64, merged *model.MergedEntity, p *model.DeletionPlan) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		return errors2.NewServerError(errors2.TRANSACTION_FAILURE, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	dbType := s.dbProvider.GetDBType()

	if err := s.writeConsolidated(ctx, tx, dbType, keep, merged); err != nil {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.APPLY_MERGE.Code,
			Message:     errors2.APPLY_MERGE.Message,
			Description: fmt.Sprintf("failed to write consolidated record onto entity %d", keep),
		}, err)
	}

	if err := s.executePlan(ctx, tx, dbType, p); err != nil {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.APPLY_MERGE.Code,
			Message:     errors2.APPLY_MERGE.Message,
			Description: fmt.Sprintf("failed to execute deletion plan for entity %d", keep),
		}, err)
	}

	if err := tx.Commit(); err != nil {
		return errors2.NewServerError(errors2.TRANSACTION_FAILURE, err)
	}
	committed = true

	logger.Info("Merge applied", log.Int64("retained_entity_id", keep),
		log.Int("removed_entities", len(p.DeletedEntityIDs)))
	return nil
}

// writeConsolidated replaces the retained entity's scalar fields and child
// collections with the consolidated record. Child collections are a full
// replace since the recommender already unioned and de-duplicated them.
func (s *MergeStore) writeConsolidated(ctx context.Context, tx *sql.Tx, dbType string, keep int64, merged *model.MergedEntity) error {

	var name, tradeName interface{}
	if merged.Name != "" {
		name = merged.Name
	}
	if merged.TradeName != nil {
		tradeName = *merged.TradeName
	}
	if _, err := tx.ExecContext(ctx, scripts.UpdateEntityConsolidated[dbType], keep, name, tradeName, merged.UpdatedBy); err != nil {
		return errors.Wrap(err, "update retained entity")
	}

	for _, query := range []string{
		scripts.DeletePeopleForEntity[dbType],
		scripts.DeleteAddressesForEntity[dbType],
		scripts.DeletePropertiesForEntity[dbType],
	} {
		if _, err := tx.ExecContext(ctx, query, keep); err != nil {
			return errors.Wrap(err, "clear retained entity children")
		}
	}

	for _, person := range merged.People {
		if _, err := tx.ExecContext(ctx, scripts.InsertPerson[dbType], keep, person.Type, person.Salutation,
			person.FirstName, person.LastName, person.Title, person.DateOfBirth,
			person.CreatedBy, person.UpdatedBy); err != nil {
			return errors.Wrap(err, "insert consolidated person")
		}
	}
	for _, address := range merged.Address {
		if _, err := tx.ExecContext(ctx, scripts.InsertAddress[dbType], keep, address.LineOne, address.LineTwo,
			address.Area, address.City, address.State, address.Zipcode, address.Country,
			address.CountryCode, address.AddressType, address.CreatedBy, address.UpdatedBy); err != nil {
			return errors.Wrap(err, "insert consolidated address")
		}
	}
	for _, property := range merged.Property {
		if _, err := tx.ExecContext(ctx, scripts.InsertProperty[dbType], keep, property.PropertyID,
			property.PropertyRefID, property.PropertyTitle, property.PropertyValue,
			property.IsPrimary, property.Position, property.CreatedBy, property.UpdatedBy); err != nil {
			return errors.Wrap(err, "insert consolidated property")
		}
	}

	return nil
}

// executePlan deletes plan rows child-tables-first and then soft-deletes the
// superseded entities, preserving their audit trail.
func (s *MergeStore) executePlan(ctx context.Context, tx *sql.Tx, dbType string, p *model.DeletionPlan) error {

	childQueries := map[string]string{
		constants.TableEntityProperty: scripts.DeletePropertyRows[dbType],
		constants.TableAddress:        scripts.DeleteAddressRows[dbType],
		constants.TablePeople:         scripts.DeletePeopleRows[dbType],
	}
	for table, query := range childQueries {
		ids := p.TablesToCleanup[table]
		if len(ids) == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, pq.Array(ids)); err != nil {
			return errors.Wrapf(err, "delete rows from %s", table)
		}
	}

	if len(p.DeletedEntityIDs) > 0 {
		if _, err := tx.ExecContext(ctx, scripts.SoftDeleteEntities[dbType], pq.Array(p.DeletedEntityIDs)); err != nil {
			return errors.Wrap(err, "soft-delete superseded entities")
		}
	}

	return nil
}
