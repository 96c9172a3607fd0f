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

package model

// OwnedRows maps table name to row id to the entity id owning that row.
// The entity table maps each entity id to itself.
type OwnedRows map[string]map[int64]int64

// Owner reports the owning entity of a row, if the row is known.
func (o OwnedRows) Owner(table string, rowID int64) (int64, bool) {
	rows, ok := o[table]
	if !ok {
		return 0, false
	}
	owner, ok := rows[rowID]
	return owner, ok
}
