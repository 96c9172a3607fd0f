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

	"github.com/veridata/entity-cleanup-service/internal/query/handler"
)

// QueryService routes the natural-language query endpoint.
type QueryService struct {
	queryHandler *handler.QueryHandler
}

// NewQueryService creates a new QueryService instance.
func NewQueryService() *QueryService {
	return &QueryService{
		queryHandler: handler.NewQueryHandler(),
	}
}

// Route dispatches natural-query requests.
func (s *QueryService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodPost && path == "/natural-query":
		s.queryHandler.HandleQuery(w, r)

	default:
		http.NotFound(w, r)
	}
}
