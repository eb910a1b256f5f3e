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
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.AIProvider using OpenAI-compatible APIs.
// The classifier model serves grouping and both analyses; the generator
// model writes drafts.
type Provider struct {
	config      *ai.Config
	classifier  *Classifier
	discrepancy *DiscrepancyAnalyzer
	coherence   *CoherenceAnalyzer
	generator   *Generator
	logger      *slog.Logger
}

// newModel creates a langchaingo chat client for the given model name.
func newModel(config *ai.Config, model string) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(model),
	)
}

// NewProvider creates a provider for all four capabilities.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	analysisModel, err := newModel(config, config.ClassifierModel)
	if err != nil {
		return nil, err
	}
	generationModel, err := newModel(config, config.GeneratorModel)
	if err != nil {
		return nil, err
	}

	return newProvider(config, analysisModel, generationModel), nil
}

func newProvider(config *ai.Config, analysisModel, generationModel llms.Model) *Provider {
	return &Provider{
		config:      config,
		classifier:  newClassifier(config, analysisModel),
		discrepancy: newDiscrepancyAnalyzer(config, analysisModel),
		coherence:   newCoherenceAnalyzer(config, analysisModel),
		generator:   newGenerator(config, generationModel),
		logger:      slog.Default().With("component", "openai-provider"),
	}
}

func (p *Provider) Classifier() ai.Classifier                   { return p.classifier }
func (p *Provider) DiscrepancyAnalyzer() ai.DiscrepancyAnalyzer { return p.discrepancy }
func (p *Provider) CoherenceAnalyzer() ai.CoherenceAnalyzer     { return p.coherence }
func (p *Provider) Generator() ai.Generator                     { return p.generator }

// Close releases provider resources.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
