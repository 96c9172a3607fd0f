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

// Package query answers free-form operator questions about the entity store
// through the same decision-service endpoint the classifier uses.
package query

import (
	"context"
	"net/http"
	"strings"

	"github.com/veridata/entity-cleanup-service/internal/classifier"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

const querySystemPrompt = `You are an assistant for a party master data cleanup service.
Answer the operator's question about entity data quality, duplicates and merge operations.
Respond in GitHub-flavored markdown. Be concise and factual.`

// Answer is the markdown response to one natural-language question.
type Answer struct {
	Markdown string `json:"markdown"`
}

// Service is a pass-through from operator questions to the decision service.
type Service struct {
	completer classifier.Completer
}

// NewService creates a new instance of Service.
func NewService(completer classifier.Completer) *Service {

	return &Service{completer: completer}
}

// Ask forwards one question and returns the markdown answer unmodified.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "question must not be empty",
		}, http.StatusBadRequest)
	}

	markdown, err := s.completer.Complete(ctx, querySystemPrompt, question)
	if err != nil {
		return nil, errors.NewServerError(errors.NATURAL_QUERY_FAILURE, err)
	}

	log.GetLogger().Debug("Natural query answered", log.Int("question_length", len(question)))
	return &Answer{Markdown: markdown}, nil
}
