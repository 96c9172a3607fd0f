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

// Package classifier talks to the external duplicate-decision service over
// an OpenAI-compatible chat API and turns its responses into validated merge
// recommendations.
package classifier

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/veridata/entity-cleanup-service/internal/system/config"
)

// Completer is the minimal chat surface the analyzer needs. Implemented by
// OpenAIClient; tests substitute a canned fake.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// OpenAIClient completes prompts against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client from the classifier configuration. An empty
// endpoint keeps the library default.
func NewOpenAIClient(cfg config.ClassifierConfig) *OpenAIClient {

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Complete sends one system/user exchange and returns the raw response text.
// Strict JSON output is requested so responses parse without fence stripping.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}
