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

package constants

type contextKey string

const (
	// ApiBasePath is the base path all services are mounted under.
	ApiBasePath = "/api/v1"

	// TraceIDContextKey carries the per-request trace id.
	TraceIDContextKey contextKey = "traceID"

	// UserIDContextKey carries the authenticated subject, when present.
	UserIDContextKey contextKey = "userID"
)

// Entity type discriminants as stored in the entity table.
const (
	EntityTypeOrganization = 1
	EntityTypePerson       = 2
)

// Tables owned by an entity that participate in a deletion plan.
const (
	TableEntity         = "entity"
	TableEntityProperty = "entity_property"
	TableAddress        = "address"
	TablePeople         = "people"
)

// Property keys carried in entity_property rows.
const (
	PropertyEmail = "email"
	PropertyPhone = "phone_number"
)

const (
	MaxLockRetryAttempts = 10
	LockRetryDelayMillis = 100
)
