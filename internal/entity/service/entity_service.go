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

	"github.com/veridata/entity-cleanup-service/internal/conflict"
	"github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/entity/store"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// CandidateSet is a name-sharing group of entities together with the
// per-field conflict report over them.
type CandidateSet struct {
	Name      string          `json:"name"`
	Entities  []model.Entity  `json:"entities"`
	Conflicts conflict.Report `json:"conflicts"`
}

// EntityService serves the duplicate-candidate read surface.
type EntityService struct {
	store *store.EntityStore
}

// NewEntityService creates a new instance of EntityService.
func NewEntityService() *EntityService {

	return &EntityService{
		store: store.NewEntityStore(),
	}
}

// GetDuplicateNames returns the display names shared by more than one live
// entity of the given type.
func (s *EntityService) GetDuplicateNames(ctx context.Context, entityType int) ([]string, error) {

	if err := ValidateEntityType(entityType); err != nil {
		return nil, err
	}
	return s.store.GetDuplicateNames(ctx, entityType)
}

// GetCandidatesByName returns the candidate entities sharing a name, with
// their conflict report attached.
func (s *EntityService) GetCandidatesByName(ctx context.Context, name string, entityType int) (*CandidateSet, error) {

	if err := ValidateEntityType(entityType); err != nil {
		return nil, err
	}
	entities, err := s.store.GetEntitiesByName(ctx, name, entityType)
	if err != nil {
		return nil, err
	}
	return &CandidateSet{
		Name:      name,
		Entities:  entities,
		Conflicts: conflict.Detect(entities),
	}, nil
}

// ValidateEntityType rejects types outside the known organization/person
// pair.
func ValidateEntityType(entityType int) error {

	if entityType != constants.EntityTypeOrganization && entityType != constants.EntityTypePerson {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_ENTITY_TYPE.Code,
			Message:     errors.INVALID_ENTITY_TYPE.Message,
			Description: fmt.Sprintf("unknown entity type %d", entityType),
		}, http.StatusBadRequest)
	}
	return nil
}
