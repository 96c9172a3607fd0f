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

// Package conflict classifies field-level agreement across a group of
// candidate duplicate entities. Everything here is a pure function of its
// inputs; detection is safe to run repeatedly and in any order across fields.
package conflict

import (
	"strconv"
	"strings"
	"time"

	"github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
)

// Outcome classifies a single field across a candidate group. The three
// outcomes are exhaustive and mutually exclusive for any group of size >= 1.
type Outcome string

const (
	// Match means all non-empty values agree.
	Match Outcome = "match"
	// Conflict means at least two non-empty values differ.
	Conflict Outcome = "conflict"
	// Missing means every value is empty or absent.
	Missing Outcome = "missing"
)

// FieldReport carries the classification of one field together with the
// per-entity values that produced it, in candidate order.
type FieldReport struct {
	Field   string   `json:"field"`
	Outcome Outcome  `json:"outcome"`
	Values  []string `json:"values"`
}

// Summary counts conflicts per category across a candidate group. It gates
// whether a merge is auto-merge eligible or needs manual review.
type Summary struct {
	Total              int `json:"total"`
	NameConflicts      int `json:"name_conflicts"`
	TradeNameConflicts int `json:"trade_name_conflicts"`
	TypeConflicts      int `json:"type_conflicts"`
	CreatedByConflicts int `json:"created_by_conflicts"`
	PhoneConflicts     int `json:"phone_conflicts"`
	EmailConflicts     int `json:"email_conflicts"`
	AddressConflicts   int `json:"address_conflicts"`
}

// Report is the full detection result for one candidate group.
type Report struct {
	Fields  []FieldReport `json:"fields"`
	Summary Summary       `json:"summary"`
}

// CompareValues classifies a scalar field given its per-entity values.
// Empty strings count as absent.
func CompareValues(values []string) Outcome {

	var first string
	seen := false
	for _, v := range values {
		if v == "" {
			continue
		}
		if !seen {
			first = v
			seen = true
			continue
		}
		if v != first {
			return Conflict
		}
	}
	if !seen {
		return Missing
	}
	return Match
}

// CompareSets classifies a repeated-collection field by value-set equality.
// Two entities match when their sets are equal regardless of order or
// multiplicity; any value present in one set and absent from another is a
// conflict. Entities with empty sets are ignored unless all are empty.
func CompareSets(sets [][]string) Outcome {

	var reference map[string]struct{}
	for _, values := range sets {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		if reference == nil {
			reference = set
			continue
		}
		if !sameSet(reference, set) {
			return Conflict
		}
	}
	if reference == nil {
		return Missing
	}
	return Match
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

// Detect runs field-level conflict detection across an ordered candidate
// group and produces the per-field reports plus the conflict summary.
func Detect(entities []model.Entity) Report {

	var report Report
	if len(entities) == 0 {
		return report
	}

	scalar := func(field string, value func(e *model.Entity) string) FieldReport {
		values := make([]string, len(entities))
		for i := range entities {
			values[i] = value(&entities[i])
		}
		return FieldReport{Field: field, Outcome: CompareValues(values), Values: values}
	}

	name := scalar("name", func(e *model.Entity) string { return e.Name })
	tradeName := scalar("trade_name", func(e *model.Entity) string {
		if e.TradeName == nil {
			return ""
		}
		return *e.TradeName
	})
	entityType := scalar("type", func(e *model.Entity) string { return strconv.Itoa(e.Type) })
	createdBy := scalar("created_by", func(e *model.Entity) string {
		if e.CreatedBy == nil {
			return ""
		}
		return strconv.FormatInt(*e.CreatedBy, 10)
	})
	createdAt := scalar("created_at", func(e *model.Entity) string { return normalizeDate(e.CreatedAt) })

	phones := collectionReport("phone_number", entities, constants.PropertyPhone)
	emails := collectionReport("email", entities, constants.PropertyEmail)
	addresses := addressReport(entities)

	report.Fields = []FieldReport{name, tradeName, entityType, createdBy, createdAt, phones, emails, addresses}

	if name.Outcome == Conflict {
		report.Summary.NameConflicts++
	}
	if tradeName.Outcome == Conflict {
		report.Summary.TradeNameConflicts++
	}
	if entityType.Outcome == Conflict {
		report.Summary.TypeConflicts++
	}
	if createdBy.Outcome == Conflict {
		report.Summary.CreatedByConflicts++
	}
	if phones.Outcome == Conflict {
		report.Summary.PhoneConflicts++
	}
	if emails.Outcome == Conflict {
		report.Summary.EmailConflicts++
	}
	if addresses.Outcome == Conflict {
		report.Summary.AddressConflicts++
	}
	report.Summary.Total = report.Summary.NameConflicts + report.Summary.TradeNameConflicts +
		report.Summary.TypeConflicts + report.Summary.CreatedByConflicts +
		report.Summary.PhoneConflicts + report.Summary.EmailConflicts + report.Summary.AddressConflicts

	return report
}

func collectionReport(field string, entities []model.Entity, propertyID string) FieldReport {

	sets := make([][]string, len(entities))
	values := make([]string, len(entities))
	for i := range entities {
		sets[i] = entities[i].PropertyValues(propertyID)
		values[i] = strings.Join(sets[i], ", ")
	}
	return FieldReport{Field: field, Outcome: CompareSets(sets), Values: values}
}

func addressReport(entities []model.Entity) FieldReport {

	sets := make([][]string, len(entities))
	values := make([]string, len(entities))
	for i := range entities {
		for _, a := range entities[i].Address {
			sets[i] = append(sets[i], normalizeAddress(&a))
		}
		values[i] = strings.Join(sets[i], " | ")
	}
	return FieldReport{Field: "address", Outcome: CompareSets(sets), Values: values}
}

// Addresses are compared on their postal content, lower-cased, so formatting
// differences between rows do not register as conflicts.
func normalizeAddress(a *model.Address) string {

	parts := []string{a.LineOne}
	for _, p := range []*string{a.LineTwo, a.Area, a.City, a.State, a.Zipcode} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	parts = append(parts, a.Country)
	return strings.ToLower(strings.Join(parts, ","))
}

// Dates are compared as calendar dates, not timestamp strings.
func normalizeDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
