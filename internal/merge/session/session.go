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

// Package session holds the server-side state of the latest duplicate
// analysis, so apply and approve calls can reference groups by index without
// the client re-sending the full analysis payload.
package session

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/veridata/entity-cleanup-service/internal/merge/model"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// Session stores the latest AnalysisResult together with the review state of
// each duplicate group. A new analysis replaces prior state wholesale;
// nothing is merged across runs.
type Session struct {
	mu     sync.Mutex
	result *model.AnalysisResult
	states []model.ReviewState
}

// NewSession creates an empty analysis session.
func NewSession() *Session {

	return &Session{}
}

// Init installs a fresh analysis result, replacing any prior one. Entry
// review states are derived from each group's needsReview flag.
func (s *Session) Init(result *model.AnalysisResult) {

	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]model.ReviewState, len(result.Grouped))
	for i := range result.Grouped {
		states[i] = model.InitialReviewState(result.Grouped[i].Decision.NeedsReview)
	}
	s.result = result
	s.states = states
}

// Clear drops the current analysis, if any.
func (s *Session) Clear() {

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.states = nil
}

// Snapshot returns a copy of the current analysis and review states, or a
// NoAnalysisSession error when no analysis has been run.
func (s *Session) Snapshot() (*model.AnalysisResult, []model.ReviewState, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil, nil, noSession()
	}
	result := *s.result
	result.Grouped = append([]model.DuplicateGroup(nil), s.result.Grouped...)
	states := append([]model.ReviewState(nil), s.states...)
	return &result, states, nil
}

// Group returns one duplicate group and its review state by index.
func (s *Session) Group(index int) (*model.DuplicateGroup, model.ReviewState, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil, "", noSession()
	}
	if index < 0 || index >= len(s.result.Grouped) {
		return nil, "", errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: fmt.Sprintf("no duplicate group at index %d", index),
		}, http.StatusBadRequest)
	}
	group := s.result.Grouped[index]
	return &group, s.states[index], nil
}

// Approve records operator confirmation for a group that needs review.
func (s *Session) Approve(index int) (model.ReviewState, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return "", noSession()
	}
	if index < 0 || index >= len(s.states) {
		return "", errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: fmt.Sprintf("no duplicate group at index %d", index),
		}, http.StatusBadRequest)
	}
	next, err := s.states[index].Approve()
	if err != nil {
		return s.states[index], err
	}
	s.states[index] = next
	return next, nil
}

// SetState records the post-apply review state of a group. Out-of-range or
// cleared sessions are ignored; the apply already happened and its outcome
// stands on its own.
func (s *Session) SetState(index int, state model.ReviewState) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.states) {
		return
	}
	s.states[index] = state
}

func noSession() error {
	return errors.NewClientError(errors.NO_ANALYSIS_SESSION, http.StatusConflict)
}
