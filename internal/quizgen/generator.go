// Package quizgen turns an uploaded PDF into a validated set of quiz
// questions via the Gemini API, with bounded retry on transient failure.
package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

// quizSchema constrains the service output: an array of question objects
// with zero-based correct option indices.
var quizSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"questionText": {"type": "STRING"},
			"type": {"type": "STRING", "enum": ["SINGLE", "MULTIPLE"]},
			"options": {"type": "ARRAY", "items": {"type": "STRING"}},
			"correctOptionIndices": {
				"type": "ARRAY",
				"items": {"type": "INTEGER"},
				"description": "Zero-based indices of the correct options in the options array"
			},
			"explanation": {"type": "STRING"}
		},
		"required": ["questionText", "type", "options", "correctOptionIndices"]
	}
}`)

// generatedQuestion is the untyped service output for one question, parsed
// and validated before any domain Question is constructed.
type generatedQuestion struct {
	QuestionText         string   `json:"questionText"`
	Type                 string   `json:"type"`
	Options              []string `json:"options"`
	CorrectOptionIndices []int    `json:"correctOptionIndices"`
	Explanation          string   `json:"explanation"`
}

// Internal adapter interface to enable testing without the live service.
type contentAPI interface {
	GenerateContent(ctx context.Context, pdfBase64, prompt string, schema json.RawMessage) (string, error)
}

// Generator produces quiz questions from a PDF payload. The whole call is
// retried on any failure: the round trip is expensive but safe to repeat,
// and transient failures (rate limiting, output formatting drift) dominate.
type Generator struct {
	api         contentAPI
	maxAttempts int
	retryDelay  time.Duration
	logger      *logger.Logger
}

// NewGenerator creates a generator over the given API client. Non-positive
// maxAttempts and negative retryDelay fall back to the defaults (3 attempts,
// 2 seconds).
func NewGenerator(api contentAPI, maxAttempts int, retryDelay time.Duration, logger *logger.Logger) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if retryDelay < 0 {
		retryDelay = defaultRetryDelay
	}
	return &Generator{
		api:         api,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// Generate requests count questions from the document content and maps the
// service output into domain questions. After exhausting all attempts the
// returned error wraps model.ErrGenerationFailed and carries the last
// underlying error's message.
func (g *Generator) Generate(ctx context.Context, content []byte, count int) ([]model.Question, error) {
	payload := stripDataURIPrefix(string(content))
	prompt := buildPrompt(count)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.retryDelay):
			}
		}

		text, err := g.api.GenerateContent(ctx, payload, prompt, quizSchema)
		if err != nil {
			lastErr = err
			g.logger.Warn("generation attempt failed", "attempt", attempt, "error", err)
			continue
		}

		questions, err := parseQuestions(text)
		if err != nil {
			lastErr = err
			g.logger.Warn("generation output rejected", "attempt", attempt, "error", err)
			continue
		}

		return questions, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", model.ErrGenerationFailed, g.maxAttempts, lastErr)
}

// stripDataURIPrefix removes a data-URI header from an encoded payload,
// leaving bare base64 for transmission.
func stripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

func buildPrompt(count int) string {
	return fmt.Sprintf(`Analyze the provided PDF document.
Generate %d quiz questions in Chinese based on the key concepts in the document.
Mix single choice and multiple choice questions.
Ensure the questions are challenging but fair.
Provide a detailed explanation for the correct answer in Chinese.`, count)
}

// parseQuestions validates the raw service output and builds domain
// questions. Option ids are synthesized from question and option positions;
// correct indices outside the options range are dropped rather than failing
// the item.
func parseQuestions(text string) ([]model.Question, error) {
	cleaned := stripCodeFences(text)

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("malformed generation output: %w", err)
	}

	questions := make([]model.Question, 0, len(items))
	for qi, item := range items {
		if item.QuestionText == "" {
			return nil, fmt.Errorf("question %d has no text", qi)
		}
		if len(item.Options) == 0 {
			return nil, fmt.Errorf("question %d has no options", qi)
		}

		options := make([]model.Option, len(item.Options))
		for oi, text := range item.Options {
			options[oi] = model.Option{
				ID:   fmt.Sprintf("opt-%d-%d", qi, oi),
				Text: text,
			}
		}

		correct := make([]string, 0, len(item.CorrectOptionIndices))
		for _, idx := range item.CorrectOptionIndices {
			if idx < 0 || idx >= len(options) {
				continue
			}
			correct = append(correct, options[idx].ID)
		}
		if len(correct) == 0 {
			return nil, fmt.Errorf("question %d has no valid correct options", qi)
		}

		qType := model.QuestionTypeSingle
		if item.Type == string(model.QuestionTypeMultiple) {
			qType = model.QuestionTypeMultiple
		}

		questions = append(questions, model.Question{
			ID:               uuid.NewString(),
			Text:             item.QuestionText,
			Type:             qType,
			Options:          options,
			CorrectOptionIDs: correct,
			Explanation:      item.Explanation,
		})
	}

	return questions, nil
}

// stripCodeFences removes markdown fences the service occasionally wraps
// around the JSON payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
