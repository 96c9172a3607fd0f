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

import "time"

// Entity is a party record, either an organization or a person, subject to
// deduplication. Child collections are owned by the entity; mappings are weak
// references to other entities and never an ownership edge.
type Entity struct {
	EntityID  int64            `json:"entity_id"`
	Type      int              `json:"type"`
	Name      string           `json:"name"`
	TradeName *string          `json:"trade_name"`
	CreatedBy *int64           `json:"created_by"`
	UpdatedBy *int64           `json:"updated_by"`
	CreatedAt *time.Time       `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at"`
	DeletedAt *time.Time       `json:"deleted_at"`
	IsDeleted bool             `json:"is_deleted"`
	People    []Person         `json:"people"`
	Address   []Address        `json:"address"`
	Property  []EntityProperty `json:"property"`
	Mappings  []EntityMapping  `json:"entity_mapping,omitempty"`
}

// Person is owned by exactly one entity.
type Person struct {
	PeopleID    int64      `json:"people_id"`
	EntityID    int64      `json:"entity_id,omitempty"`
	Type        int        `json:"type"`
	Salutation  *string    `json:"salutation"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Title       *string    `json:"title"`
	DateOfBirth *string    `json:"date_of_birth"`
	CreatedBy   *int64     `json:"created_by"`
	UpdatedBy   *int64     `json:"updated_by"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// Address is owned by exactly one entity. Multiple addresses per entity are
// allowed with no uniqueness constraint among them.
type Address struct {
	AddressID   int64      `json:"address_id"`
	EntityID    int64      `json:"entity_id,omitempty"`
	LineOne     string     `json:"line_one"`
	LineTwo     *string    `json:"line_two"`
	Area        *string    `json:"area"`
	City        *string    `json:"city"`
	State       *string    `json:"state"`
	Zipcode     *string    `json:"zipcode"`
	Country     string     `json:"country"`
	CountryCode *string    `json:"country_code"`
	AddressType *string    `json:"address_type"`
	CreatedBy   *int64     `json:"created_by"`
	UpdatedBy   *int64     `json:"updated_by"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// EntityProperty is a typed key/value attribute of an entity, such as an
// email address or a phone number. IsPrimary is stored as "Yes"/"No"; the
// "exactly one primary per property_id" convention is not enforced here.
type EntityProperty struct {
	EntityPropertyID int64      `json:"entity_property_id"`
	EntityID         int64      `json:"entity_id,omitempty"`
	PropertyID       string     `json:"property_id"`
	PropertyRefID    *string    `json:"property_refid"`
	PropertyTitle    *string    `json:"property_title"`
	PropertyValue    string     `json:"property_value"`
	IsPrimary        string     `json:"is_primary"`
	Position         int        `json:"position"`
	CreatedBy        *int64     `json:"created_by"`
	UpdatedBy        *int64     `json:"updated_by"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

// EntityMapping relates two entities (parent/child) by reference.
type EntityMapping struct {
	EntityMappingID int64      `json:"entity_mapping_id"`
	ParentID        int64      `json:"parent_id"`
	EntityID        int64      `json:"entity_id"`
	Title           *string    `json:"title"`
	IsPrimary       *string    `json:"is_primary"`
	CreatedBy       *int64     `json:"created_by"`
	UpdatedBy       *int64     `json:"updated_by"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}

// PropertyValues returns the values of all properties carrying the given
// property key, preserving row order.
func (e *Entity) PropertyValues(propertyID string) []string {
	var values []string
	for _, p := range e.Property {
		if p.PropertyID == propertyID {
			values = append(values, p.PropertyValue)
		}
	}
	return values
}
