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
	"strconv"
	"time"

	"github.com/veridata/entity-cleanup-service/internal/entity/model"
)

// Conversions for the loosely typed rows the DB client returns. lib/pq hands
// back int64, string, []byte, bool, time.Time or nil depending on the column.

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func asNullableInt64(v interface{}) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func asInt(v interface{}) int {
	return int(asInt64(v))
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func asNullableString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v interface{}) *time.Time {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func mapEntityRow(row map[string]interface{}) model.Entity {
	return model.Entity{
		EntityID:  asInt64(row["entity_id"]),
		Type:      asInt(row["type"]),
		Name:      asString(row["name"]),
		TradeName: asNullableString(row["trade_name"]),
		CreatedBy: asNullableInt64(row["created_by"]),
		UpdatedBy: asNullableInt64(row["updated_by"]),
		CreatedAt: asTime(row["created_at"]),
		UpdatedAt: asTime(row["updated_at"]),
		DeletedAt: asTime(row["deleted_at"]),
		IsDeleted: asBool(row["is_deleted"]),
	}
}

func mapPersonRow(row map[string]interface{}) model.Person {
	return model.Person{
		PeopleID:    asInt64(row["people_id"]),
		EntityID:    asInt64(row["entity_id"]),
		Type:        asInt(row["type"]),
		Salutation:  asNullableString(row["salutation"]),
		FirstName:   asString(row["first_name"]),
		LastName:    asString(row["last_name"]),
		Title:       asNullableString(row["title"]),
		DateOfBirth: asNullableString(row["date_of_birth"]),
		CreatedBy:   asNullableInt64(row["created_by"]),
		UpdatedBy:   asNullableInt64(row["updated_by"]),
		CreatedAt:   asTime(row["created_at"]),
		UpdatedAt:   asTime(row["updated_at"]),
		DeletedAt:   asTime(row["deleted_at"]),
	}
}

func mapAddressRow(row map[string]interface{}) model.Address {
	return model.Address{
		AddressID:   asInt64(row["address_id"]),
		EntityID:    asInt64(row["entity_id"]),
		LineOne:     asString(row["line_one"]),
		LineTwo:     asNullableString(row["line_two"]),
		Area:        asNullableString(row["area"]),
		City:        asNullableString(row["city"]),
		State:       asNullableString(row["state"]),
		Zipcode:     asNullableString(row["zipcode"]),
		Country:     asString(row["country"]),
		CountryCode: asNullableString(row["country_code"]),
		AddressType: asNullableString(row["address_type"]),
		CreatedBy:   asNullableInt64(row["created_by"]),
		UpdatedBy:   asNullableInt64(row["updated_by"]),
		CreatedAt:   asTime(row["created_at"]),
		UpdatedAt:   asTime(row["updated_at"]),
		DeletedAt:   asTime(row["deleted_at"]),
	}
}

func mapPropertyRow(row map[string]interface{}) model.EntityProperty {
	return model.EntityProperty{
		EntityPropertyID: asInt64(row["entity_property_id"]),
		EntityID:         asInt64(row["entity_id"]),
		PropertyID:       asString(row["property_id"]),
		PropertyRefID:    asNullableString(row["property_refid"]),
		PropertyTitle:    asNullableString(row["property_title"]),
		PropertyValue:    asString(row["property_value"]),
		IsPrimary:        asString(row["is_primary"]),
		Position:         asInt(row["position"]),
		CreatedBy:        asNullableInt64(row["created_by"]),
		UpdatedBy:        asNullableInt64(row["updated_by"]),
		CreatedAt:        asTime(row["created_at"]),
		UpdatedAt:        asTime(row["updated_at"]),
	}
}

func mapMappingRow(row map[string]interface{}) model.EntityMapping {
	return model.EntityMapping{
		EntityMappingID: asInt64(row["entity_mapping_id"]),
		ParentID:        asInt64(row["parent_id"]),
		EntityID:        asInt64(row["entity_id"]),
		Title:           asNullableString(row["title"]),
		IsPrimary:       asNullableString(row["is_primary"]),
		CreatedBy:       asNullableInt64(row["created_by"]),
		UpdatedBy:       asNullableInt64(row["updated_by"]),
		CreatedAt:       asTime(row["created_at"]),
		UpdatedAt:       asTime(row["updated_at"]),
		DeletedAt:       asTime(row["deleted_at"]),
	}
}
