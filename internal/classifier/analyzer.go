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

package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veridata/entity-cleanup-service/internal/conflict"
	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

const analyzeSystemPrompt = `You are an entity resolution assistant for a party master data store.
You are given candidate entities that share a name, together with a per-field conflict report.
Group the true duplicates, and for each group decide which entity to keep, which to remove,
and produce a consolidated record whose child collections (people, address, property) are the
union of the group's rows with exact duplicates removed.
Set "needsReview": true whenever any scalar field conflicts or the grouping is uncertain.
Respond with a single JSON object of this shape and nothing else:
{
  "grouped": [
    {
      "aiDecision": {
        "keep": <entity_id>,
        "remove": [<entity_id>, ...],
        "needsReview": <bool>,
        "suggestions": "<short reason>",
        "changes": {"<field>": {"before": "<old>", "after": "<new>"}}
      },
      "mergedEntity": { ... full consolidated entity ... },
      "deletionPlan": {}
    }
  ],
  "totalFound": <int>,
  "duplicateGroupsCount": <int>
}`

// analyzePayload is the user-message body sent to the decision service.
type analyzePayload struct {
	Entities  []entitymodel.Entity `json:"entities"`
	Conflicts conflict.Report      `json:"conflicts"`
}

// Analyzer runs duplicate analysis over a candidate set via a Completer.
type Analyzer struct {
	completer Completer
}

// NewAnalyzer creates a new instance of Analyzer.
func NewAnalyzer(completer Completer) *Analyzer {

	return &Analyzer{completer: completer}
}

// AnalyzeDuplicates asks the decision service to group and resolve the given
// candidates. The response is parsed and every group validated; a single
// malformed group aborts the whole analysis, so callers never see partial
// recommendations.
func (a *Analyzer) AnalyzeDuplicates(ctx context.Context, candidates []entitymodel.Entity) (*model.AnalysisResult, error) {

	logger := log.GetLogger()

	if len(candidates) == 0 {
		return &model.AnalysisResult{Grouped: []model.DuplicateGroup{}}, nil
	}

	report := conflict.Detect(candidates)
	payload, err := json.Marshal(analyzePayload{Entities: candidates, Conflicts: report})
	if err != nil {
		return nil, errors.NewServerError(errors.MARSHAL_JSON, err)
	}

	raw, err := a.completer.Complete(ctx, analyzeSystemPrompt, string(payload))
	if err != nil {
		return nil, errors.NewServerError(errors.CLASSIFIER_FAILURE, err)
	}

	result, err := parseAnalysis(raw, candidates)
	if err != nil {
		return nil, err
	}

	logger.Info("Duplicate analysis completed", log.Int("candidates", len(candidates)),
		log.Int("duplicate_groups", len(result.Grouped)))
	return result, nil
}

// parseAnalysis decodes and validates the decision service response against
// the candidate set it was produced from.
func parseAnalysis(raw string, candidates []entitymodel.Entity) (*model.AnalysisResult, error) {

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, classifierFailure(fmt.Sprintf("response is not valid JSON: %v", err))
	}

	known := make(map[int64]struct{}, len(candidates))
	for _, e := range candidates {
		known[e.EntityID] = struct{}{}
	}

	for i := range result.Grouped {
		group := &result.Grouped[i]
		if err := group.Decision.Validate(); err != nil {
			return nil, classifierFailure(fmt.Sprintf("group %d: %v", i, err))
		}
		if _, ok := known[group.Decision.Keep]; !ok {
			return nil, classifierFailure(fmt.Sprintf("group %d keeps entity %d which is not a candidate",
				i, group.Decision.Keep))
		}
		for _, id := range group.Decision.Remove {
			if _, ok := known[id]; !ok {
				return nil, classifierFailure(fmt.Sprintf("group %d removes entity %d which is not a candidate",
					i, id))
			}
		}
		if group.MergedEntity.Name == "" {
			return nil, classifierFailure(fmt.Sprintf("group %d has no consolidated record", i))
		}
	}

	result.DuplicateGroupsCount = len(result.Grouped)
	if result.TotalFound == 0 {
		result.TotalFound = len(candidates)
	}
	return &result, nil
}

// stripFences tolerates models that wrap JSON in a markdown code fence even
// when strict JSON output was requested.
func stripFences(raw string) string {

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func classifierFailure(description string) error {
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.CLASSIFIER_FAILURE.Code,
		Message:     errors.CLASSIFIER_FAILURE.Message,
		Description: description,
	}, nil)
}
