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

package services

import (
	"net/http"
	"strings"

	entityhandler "github.com/veridata/entity-cleanup-service/internal/entity/handler"
	mergehandler "github.com/veridata/entity-cleanup-service/internal/merge/handler"
)

// EntityCleanupService routes the duplicate detection and merge endpoints.
type EntityCleanupService struct {
	entityHandler *entityhandler.EntityHandler
	mergeHandler  *mergehandler.MergeHandler
}

// NewEntityCleanupService creates a new EntityCleanupService instance.
func NewEntityCleanupService() *EntityCleanupService {
	return &EntityCleanupService{
		entityHandler: entityhandler.NewEntityHandler(),
		mergeHandler:  mergehandler.NewMergeHandler(),
	}
}

// Route dispatches all /cleanup/entities endpoints.
func (s *EntityCleanupService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodGet && strings.HasPrefix(path, "/cleanup/entities/similar/by-name/"):
		s.entityHandler.HandleSimilarByName(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/cleanup/entities/by-name/"):
		s.entityHandler.HandleByName(w, r)

	case method == http.MethodPost && path == "/cleanup/entities/duplicates/analyze":
		s.mergeHandler.HandleAnalyze(w, r)

	case method == http.MethodPost && path == "/cleanup/entities/duplicates/approve":
		s.mergeHandler.HandleApprove(w, r)

	case method == http.MethodPost && path == "/cleanup/entities/resolve-duplicates":
		s.mergeHandler.HandleResolve(w, r)

	case method == http.MethodPost && path == "/cleanup/entities/resolve-duplicates/batch":
		s.mergeHandler.HandleResolveBatch(w, r)

	default:
		http.NotFound(w, r)
	}
}
