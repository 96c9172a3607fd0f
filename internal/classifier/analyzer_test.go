/*
 * Copyright (c) 2026, Veridata Inc. (https://www.veridata.io).
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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	entitymodel "github.com/veridata/entity-cleanup-service/internal/entity/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type fakeCompleter struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func candidates() []entitymodel.Entity {
	return []entitymodel.Entity{
		{EntityID: 10, Type: 1, Name: "Acme Inc"},
		{EntityID: 11, Type: 1, Name: "Acme Inc"},
		{EntityID: 12, Type: 1, Name: "Acme Inc"},
	}
}

const validResponse = `{
  "grouped": [
    {
      "aiDecision": {
        "keep": 10,
        "remove": [11, 12],
        "needsReview": false,
        "suggestions": "identical organizations"
      },
      "mergedEntity": {"entity_id": 10, "type": 1, "name": "Acme Inc"},
      "deletionPlan": {}
    }
  ],
  "totalFound": 3,
  "duplicateGroupsCount": 1
}`

func TestAnalyzeDuplicates(t *testing.T) {
	completer := &fakeCompleter{response: validResponse}
	analyzer := NewAnalyzer(completer)

	result, err := analyzer.AnalyzeDuplicates(context.Background(), candidates())
	require.NoError(t, err)
	require.Len(t, result.Grouped, 1)
	assert.Equal(t, int64(10), result.Grouped[0].Decision.Keep)
	assert.Equal(t, []int64{11, 12}, result.Grouped[0].Decision.Remove)
	assert.Equal(t, 3, result.TotalFound)
	assert.Equal(t, 1, result.DuplicateGroupsCount)

	// The prompt carries both the candidates and their conflict report.
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(completer.lastUser), &payload))
	assert.Contains(t, payload, "entities")
	assert.Contains(t, payload, "conflicts")
}

func TestAnalyzeDuplicates_EmptyCandidateSet(t *testing.T) {
	completer := &fakeCompleter{}
	analyzer := NewAnalyzer(completer)

	result, err := analyzer.AnalyzeDuplicates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Grouped)
	// No candidates means no call to the decision service.
	assert.Empty(t, completer.lastUser)
}

func TestAnalyzeDuplicates_FencedResponseTolerated(t *testing.T) {
	completer := &fakeCompleter{response: "```json\n" + validResponse + "\n```"}
	analyzer := NewAnalyzer(completer)

	result, err := analyzer.AnalyzeDuplicates(context.Background(), candidates())
	require.NoError(t, err)
	assert.Len(t, result.Grouped, 1)
}

func TestAnalyzeDuplicates_TransportFailure(t *testing.T) {
	completer := &fakeCompleter{err: assert.AnError}
	analyzer := NewAnalyzer(completer)

	_, err := analyzer.AnalyzeDuplicates(context.Background(), candidates())
	requireClassifierFailure(t, err)
}

func TestAnalyzeDuplicates_MalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not JSON", "the entities look like duplicates to me"},
		{"empty remove set", `{"grouped":[{"aiDecision":{"keep":10,"remove":[]},
			"mergedEntity":{"entity_id":10,"type":1,"name":"Acme Inc"}}]}`},
		{"keep outside candidates", `{"grouped":[{"aiDecision":{"keep":99,"remove":[11]},
			"mergedEntity":{"entity_id":99,"type":1,"name":"Acme Inc"}}]}`},
		{"remove outside candidates", `{"grouped":[{"aiDecision":{"keep":10,"remove":[99]},
			"mergedEntity":{"entity_id":10,"type":1,"name":"Acme Inc"}}]}`},
		{"missing consolidated record", `{"grouped":[{"aiDecision":{"keep":10,"remove":[11]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(&fakeCompleter{response: tt.response})
			_, err := analyzer.AnalyzeDuplicates(context.Background(), candidates())
			requireClassifierFailure(t, err)
		})
	}
}

func requireClassifierFailure(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	serverErr, ok := err.(*errors.ServerError)
	require.True(t, ok, "expected a ServerError, got %T", err)
	assert.Equal(t, errors.CLASSIFIER_FAILURE.Code, serverErr.Code)
}
