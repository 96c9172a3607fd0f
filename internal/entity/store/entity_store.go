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
	"fmt"

	"github.com/lib/pq"
	"github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
	"github.com/veridata/entity-cleanup-service/internal/system/database/provider"
	"github.com/veridata/entity-cleanup-service/internal/system/database/scripts"
	errors2 "github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

// EntityStore reads entity records and their owned child rows from Postgres.
type EntityStore struct {
	dbProvider provider.DBProviderInterface
}

// NewEntityStore creates a new instance of EntityStore.
func NewEntityStore() *EntityStore {

	return &EntityStore{
		dbProvider: provider.NewDBProvider(),
	}
}

// GetDuplicateNames fetches display names shared by more than one live entity
// of the given type.
func (s *EntityStore) GetDuplicateNames(ctx context.Context, entityType int) ([]string, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetDuplicateEntityNames[s.dbProvider.GetDBType()]
	results, err := dbClient.ExecuteQuery(ctx, query, entityType)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch duplicate entity names for type: %d", entityType)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.EXECUTE_QUERY.Code,
			Message:     errors2.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
	}

	names := make([]string, 0, len(results))
	for _, row := range results {
		names = append(names, asString(row["name"]))
	}
	return names, nil
}

// GetEntitiesByName fetches all live candidate entities sharing a display
// name and type, with their owned child collections attached.
func (s *EntityStore) GetEntitiesByName(ctx context.Context, name string, entityType int) ([]model.Entity, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetEntitiesByName[s.dbProvider.GetDBType()]
	results, err := dbClient.ExecuteQuery(ctx, query, name, entityType)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch entities by name: %s", name)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_ENTITIES.Code,
			Message:     errors2.FETCH_ENTITIES.Message,
			Description: errorMsg,
		}, err)
	}

	entities := make([]model.Entity, 0, len(results))
	ids := make([]int64, 0, len(results))
	for _, row := range results {
		e := mapEntityRow(row)
		entities = append(entities, e)
		ids = append(ids, e.EntityID)
	}
	if len(entities) == 0 {
		return entities, nil
	}

	if err := s.attachChildren(ctx, entities, ids); err != nil {
		return nil, err
	}
	return entities, nil
}

// GetEntityByID fetches a single live entity with child collections. Returns
// nil without error when the entity is missing or soft-deleted.
func (s *EntityStore) GetEntityByID(ctx context.Context, entityID int64) (*model.Entity, error) {

	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetEntityByID[s.dbProvider.GetDBType()]
	results, err := dbClient.ExecuteQuery(ctx, query, entityID)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_ENTITIES.Code,
			Message:     errors2.FETCH_ENTITIES.Message,
			Description: fmt.Sprintf("Failed to fetch entity: %d", entityID),
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	entities := []model.Entity{mapEntityRow(results[0])}
	if err := s.attachChildren(ctx, entities, []int64{entityID}); err != nil {
		return nil, err
	}
	return &entities[0], nil
}

// GetOwnedRows maps, per table, every child row id owned by any of the given
// entities back to its owner. Used for deletion plan derivation and the
// foreign row ownership check.
func (s *EntityStore) GetOwnedRows(ctx context.Context, entityIDs []int64) (model.OwnedRows, error) {

	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := s.dbProvider.GetDBType()
	owned := model.OwnedRows{
		constants.TableEntity:         map[int64]int64{},
		constants.TableEntityProperty: map[int64]int64{},
		constants.TableAddress:        map[int64]int64{},
		constants.TablePeople:         map[int64]int64{},
	}
	for _, id := range entityIDs {
		owned[constants.TableEntity][id] = id
	}

	propRows, err := dbClient.ExecuteQuery(ctx, scripts.GetOwnedPropertyRowIDs[dbType], pq.Array(entityIDs))
	if err != nil {
		return nil, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range propRows {
		owned[constants.TableEntityProperty][asInt64(row["entity_property_id"])] = asInt64(row["entity_id"])
	}

	addrRows, err := dbClient.ExecuteQuery(ctx, scripts.GetOwnedAddressRowIDs[dbType], pq.Array(entityIDs))
	if err != nil {
		return nil, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range addrRows {
		owned[constants.TableAddress][asInt64(row["address_id"])] = asInt64(row["entity_id"])
	}

	peopleRows, err := dbClient.ExecuteQuery(ctx, scripts.GetOwnedPeopleRowIDs[dbType], pq.Array(entityIDs))
	if err != nil {
		return nil, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range peopleRows {
		owned[constants.TablePeople][asInt64(row["people_id"])] = asInt64(row["entity_id"])
	}

	return owned, nil
}

// attachChildren loads people, addresses, properties and mappings for the
// given entities in one query per table.
func (s *EntityStore) attachChildren(ctx context.Context, entities []model.Entity, ids []int64) error {

	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := s.dbProvider.GetDBType()
	byID := make(map[int64]*model.Entity, len(entities))
	for i := range entities {
		byID[entities[i].EntityID] = &entities[i]
	}

	peopleRows, err := dbClient.ExecuteQuery(ctx, scripts.GetPeopleByEntityIDs[dbType], pq.Array(ids))
	if err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range peopleRows {
		p := mapPersonRow(row)
		if e, ok := byID[p.EntityID]; ok {
			e.People = append(e.People, p)
		}
	}

	addressRows, err := dbClient.ExecuteQuery(ctx, scripts.GetAddressesByEntityIDs[dbType], pq.Array(ids))
	if err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range addressRows {
		a := mapAddressRow(row)
		if e, ok := byID[a.EntityID]; ok {
			e.Address = append(e.Address, a)
		}
	}

	propertyRows, err := dbClient.ExecuteQuery(ctx, scripts.GetPropertiesByEntityIDs[dbType], pq.Array(ids))
	if err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range propertyRows {
		p := mapPropertyRow(row)
		if e, ok := byID[p.EntityID]; ok {
			e.Property = append(e.Property, p)
		}
	}

	mappingRows, err := dbClient.ExecuteQuery(ctx, scripts.GetMappingsByEntityIDs[dbType], pq.Array(ids))
	if err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}
	for _, row := range mappingRows {
		m := mapMappingRow(row)
		if e, ok := byID[m.EntityID]; ok {
			e.Mappings = append(e.Mappings, m)
		}
	}

	return nil
}
