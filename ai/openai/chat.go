// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// chatClient issues JSON-mode chat completions and decodes the reply.
type chatClient struct {
	model       llms.Model
	maxAttempts int
	temperature float64
	logger      *slog.Logger
}

// completeJSON sends a system and user prompt and decodes the reply into T.
// Malformed replies (bad JSON or failing validate) are re-asked up to maxAttempts.
// Transport errors are returned immediately.
func completeJSON[T any](ctx context.Context, c *chatClient, system, user string, validate func(*T) error) (*T, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	attempts := c.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		response, err := c.model.GenerateContent(ctx, content,
			llms.WithTemperature(c.temperature),
			llms.WithJSONMode(),
		)
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			return nil, ErrEmptyResponse
		}

		responseText := repairJSON(response.Choices[0].Content)

		var result T
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		if validate != nil {
			if err := validate(&result); err != nil {
				lastErr = err
				c.logger.Warn("model response failed validation",
					"attempt", attempt+1,
					"err", err)
				continue
			}
		}
		return &result, nil
	}

	c.logger.Error("failed to parse model response after retries", "err", lastErr)
	return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, lastErr)
}
