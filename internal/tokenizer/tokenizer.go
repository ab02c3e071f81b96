// Package tokenizer estimates language-model token counts for file text.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// EstimateModel selects the builtin heuristic counter.
	EstimateModel       = "estimate"
	defaultEncodingName = "cl100k_base"

	// Weights are expressed in eightieths so the blend stays in integer arithmetic:
	// 0.5 × 1.3 per word is 52/80 and 0.5 × 1/4 per character is 10/80.
	wordWeight      = 52
	characterWeight = 10
	weightDivisor   = 80
)

// EstimateTokens blends a word-based and a character-based estimate:
// ceil(0.5 × words × 1.3 + 0.5 × characters / 4). Empty text yields zero.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	characters := len([]rune(text))
	weighted := words*wordWeight + characters*characterWeight
	return (weighted + weightDivisor - 1) / weightDivisor
}

type estimateCounter struct{}

func (estimateCounter) Name() string {
	return EstimateModel
}

func (estimateCounter) CountString(input string) (int, error) {
	return EstimateTokens(input), nil
}

// NewCounter returns the counter for model. An empty model or "estimate" selects the
// heuristic; any other value is resolved as a tiktoken model or encoding name, falling
// back to cl100k_base.
func NewCounter(model string) (Counter, error) {
	normalizedModel := strings.ToLower(strings.TrimSpace(model))
	if normalizedModel == "" || normalizedModel == EstimateModel {
		return estimateCounter{}, nil
	}

	if encoding, err := tiktoken.EncodingForModel(normalizedModel); err == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: normalizedModel}, nil
	}
	if encoding, err := tiktoken.GetEncoding(normalizedModel); err == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: normalizedModel}, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, fmt.Errorf("initialize fallback tokenizer for %s: %w", model, fallbackErr)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, nil
}

// openAICounter counts tokens with a tiktoken byte-pair encoding.
type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, fmt.Errorf("tokenizer %s has no encoding", counter.name)
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
