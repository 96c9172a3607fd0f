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

package scripts

var GetDuplicateEntityNames = map[string]string{
	"postgres": `SELECT name FROM entity WHERE type = $1 AND is_deleted = FALSE
        GROUP BY name HAVING COUNT(*) > 1 ORDER BY name`,
}

var GetEntitiesByName = map[string]string{
	"postgres": `SELECT entity_id, type, name, trade_name, created_by, updated_by, created_at, updated_at,
        deleted_at, is_deleted FROM entity WHERE name = $1 AND type = $2 AND is_deleted = FALSE
        ORDER BY entity_id`,
}

var GetEntityByID = map[string]string{
	"postgres": `SELECT entity_id, type, name, trade_name, created_by, updated_by, created_at, updated_at,
        deleted_at, is_deleted FROM entity WHERE entity_id = $1 AND is_deleted = FALSE`,
}

var GetPeopleByEntityIDs = map[string]string{
	"postgres": `SELECT people_id, entity_id, type, salutation, first_name, last_name, title, date_of_birth,
        created_by, updated_by, created_at, updated_at, deleted_at FROM people
        WHERE entity_id = ANY($1) AND deleted_at IS NULL ORDER BY people_id`,
}

var GetAddressesByEntityIDs = map[string]string{
	"postgres": `SELECT address_id, entity_id, line_one, line_two, area, city, state, zipcode, country,
        country_code, address_type, created_by, updated_by, created_at, updated_at, deleted_at
        FROM address WHERE entity_id = ANY($1) AND deleted_at IS NULL ORDER BY address_id`,
}

var GetPropertiesByEntityIDs = map[string]string{
	"postgres": `SELECT entity_property_id, entity_id, property_id, property_refid, property_title,
        property_value, is_primary, position, created_by, updated_by, created_at, updated_at
        FROM entity_property WHERE entity_id = ANY($1) ORDER BY entity_id, property_id, position`,
}

var GetMappingsByEntityIDs = map[string]string{
	"postgres": `SELECT entity_mapping_id, parent_id, entity_id, title, is_primary, created_by, updated_by,
        created_at, updated_at, deleted_at FROM entity_mapping
        WHERE entity_id = ANY($1) AND deleted_at IS NULL ORDER BY entity_mapping_id`,
}

var GetOwnedPropertyRowIDs = map[string]string{
	"postgres": `SELECT entity_property_id, entity_id FROM entity_property WHERE entity_id = ANY($1)`,
}

var GetOwnedAddressRowIDs = map[string]string{
	"postgres": `SELECT address_id, entity_id FROM address WHERE entity_id = ANY($1) AND deleted_at IS NULL`,
}

var GetOwnedPeopleRowIDs = map[string]string{
	"postgres": `SELECT people_id, entity_id FROM people WHERE entity_id = ANY($1) AND deleted_at IS NULL`,
}

var UpdateEntityConsolidated = map[string]string{
	"postgres": `UPDATE entity SET name = COALESCE($2, name), trade_name = COALESCE($3, trade_name),
        updated_by = $4, updated_at = NOW() WHERE entity_id = $1 AND is_deleted = FALSE`,
}

var DeletePeopleForEntity = map[string]string{
	"postgres": `DELETE FROM people WHERE entity_id = $1`,
}

var DeleteAddressesForEntity = map[string]string{
	"postgres": `DELETE FROM address WHERE entity_id = $1`,
}

var DeletePropertiesForEntity = map[string]string{
	"postgres": `DELETE FROM entity_property WHERE entity_id = $1`,
}

var InsertPerson = map[string]string{
	"postgres": `INSERT INTO people (entity_id, type, salutation, first_name, last_name, title, date_of_birth,
        created_by, updated_by, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
}

var InsertAddress = map[string]string{
	"postgres": `INSERT INTO address (entity_id, line_one, line_two, area, city, state, zipcode, country,
        country_code, address_type, created_by, updated_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())`,
}

var InsertProperty = map[string]string{
	"postgres": `INSERT INTO entity_property (entity_id, property_id, property_refid, property_title,
        property_value, is_primary, position, created_by, updated_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
}

var DeletePropertyRows = map[string]string{
	"postgres": `DELETE FROM entity_property WHERE entity_property_id = ANY($1)`,
}

var DeleteAddressRows = map[string]string{
	"postgres": `DELETE FROM address WHERE address_id = ANY($1)`,
}

var DeletePeopleRows = map[string]string{
	"postgres": `DELETE FROM people WHERE people_id = ANY($1)`,
}

var SoftDeleteEntities = map[string]string{
	"postgres": `UPDATE entity SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
        WHERE entity_id = ANY($1) AND is_deleted = FALSE`,
}
