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

package managers

import (
	"net/http"
	"strings"

	cecontext "github.com/veridata/entity-cleanup-service/internal/system/context"
	"github.com/veridata/entity-cleanup-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts every service under the API base path, plus the
// liveness endpoints at the root.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	cleanupService := services.NewEntityCleanupService()
	queryService := services.NewQueryService()
	healthService := services.NewHealthService()

	// Liveness probes stay outside the base path so load balancers need no
	// path rewriting.
	sm.mux.HandleFunc("/health", healthService.Route)
	sm.mux.HandleFunc("/ready", healthService.Route)

	// Single dispatcher for all API services.
	sm.mux.HandleFunc(apiBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, apiBasePath), "/")

		traceID := cecontext.GetOrGenerateTraceID(r.Context())
		r = r.WithContext(cecontext.WithTraceID(r.Context(), traceID))
		r.URL.Path = path

		switch {
		case strings.HasPrefix(path, "/cleanup/entities"):
			cleanupService.Route(w, r)
		case strings.HasPrefix(path, "/natural-query"):
			queryService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return nil
}
