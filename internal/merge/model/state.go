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

import (
	"net/http"

	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// ReviewState is the manual-review gate of a duplicate group.
//
// AutoMergeable and NeedsReview are entry states, chosen by the classifier's
// needsReview flag. NeedsReview requires an explicit operator confirmation
// before the group may be applied. Applied is terminal; Failed may be retried
// back into ApprovedForMerge.
type ReviewState string

const (
	AutoMergeable    ReviewState = "auto_mergeable"
	NeedsReview      ReviewState = "needs_review"
	ApprovedForMerge ReviewState = "approved_for_merge"
	Applied          ReviewState = "applied"
	Failed           ReviewState = "failed"
)

// InitialReviewState picks the entry state from the classifier's flag.
func InitialReviewState(needsReview bool) ReviewState {
	if needsReview {
		return NeedsReview
	}
	return AutoMergeable
}

// Approve records the operator confirmation of a group that needs review.
func (s ReviewState) Approve() (ReviewState, error) {
	if s != NeedsReview {
		return s, invalidTransition(s, ApprovedForMerge)
	}
	return ApprovedForMerge, nil
}

// BeginApply checks the group may be applied from its current state.
func (s ReviewState) BeginApply() error {
	switch s {
	case AutoMergeable, ApprovedForMerge:
		return nil
	default:
		return invalidTransition(s, Applied)
	}
}

// Complete moves an applied group into its terminal state.
func (s ReviewState) Complete(succeeded bool) ReviewState {
	if succeeded {
		return Applied
	}
	return Failed
}

// Retry re-arms a failed group for another apply attempt.
func (s ReviewState) Retry() (ReviewState, error) {
	if s != Failed {
		return s, invalidTransition(s, ApprovedForMerge)
	}
	return ApprovedForMerge, nil
}

func invalidTransition(from, to ReviewState) error {
	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.INVALID_REVIEW_TRANSITION.Code,
		Message:     errors.INVALID_REVIEW_TRANSITION.Message,
		Description: "cannot transition from " + string(from) + " to " + string(to),
	}, http.StatusConflict)
}
