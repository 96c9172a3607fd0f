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

package query

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type fakeCompleter struct {
	response string
	err      error
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	f.lastUser = userPrompt
	return f.response, f.err
}

func TestAsk(t *testing.T) {
	completer := &fakeCompleter{response: "## Duplicates\n\nThere are 3 candidate groups."}
	svc := NewService(completer)

	answer, err := svc.Ask(context.Background(), "how many duplicate groups are there?")
	require.NoError(t, err)
	assert.Equal(t, completer.response, answer.Markdown)
	assert.Equal(t, "how many duplicate groups are there?", completer.lastUser)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := NewService(&fakeCompleter{})

	_, err := svc.Ask(context.Background(), "   ")
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors.BAD_REQUEST.Code, clientErr.Code)
}

func TestAsk_UpstreamFailure(t *testing.T) {
	svc := NewService(&fakeCompleter{err: assert.AnError})

	_, err := svc.Ask(context.Background(), "what changed today?")
	require.Error(t, err)
	serverErr, ok := err.(*errors.ServerError)
	require.True(t, ok)
	assert.Equal(t, errors.NATURAL_QUERY_FAILURE.Code, serverErr.Code)
}
