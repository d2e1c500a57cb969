package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dyluth/moot/internal/provider"
	"github.com/dyluth/moot/pkg/debate"
)

// AdjudicationParseError indicates the adjudicator's output could not be
// coerced into the required four-field verdict. Raw preserves the full model
// response for operator diagnosis. No automatic re-prompt is attempted.
type AdjudicationParseError struct {
	Raw string
	Err error
}

func (e *AdjudicationParseError) Error() string {
	return fmt.Sprintf("failed to parse adjudication response: %v\n\nResponse: %s", e.Err, e.Raw)
}

func (e *AdjudicationParseError) Unwrap() error {
	return e.Err
}

// IsAdjudicationParseError returns true if the error indicates unparseable
// adjudicator output.
func IsAdjudicationParseError(err error) bool {
	var target *AdjudicationParseError
	return errors.As(err, &target)
}

// Adjudicate asks the given model to judge a completed debate and parses its
// response into a structured verdict. The verdict is returned transiently,
// never persisted.
//
// Fails with debate.ErrNotFound for unknown identifiers and with
// debate.ErrNotCompleted - before any provider call - when the debate has
// not finished.
func (e *Engine) Adjudicate(ctx context.Context, debateID, adjudicatorModel string, creds provider.Credentials) (*debate.AdjudicationResult, error) {
	unlock := e.locks.lock(debateID)
	defer unlock()

	d, err := e.store.Get(ctx, debateID)
	if err != nil {
		return nil, err
	}

	if d.Status != debate.StatusCompleted {
		return nil, debate.ErrNotCompleted
	}

	prompt := adjudicationPrompt(d.Proposition, d.Messages)

	// The judge sees the whole request as a single user turn.
	raw, err := e.gen.Generate(ctx, adjudicatorModel, judgeSystemPrompt,
		[]provider.Turn{{Speaker: provider.SpeakerOther, Text: prompt}}, creds)
	if err != nil {
		return nil, fmt.Errorf("adjudicator (%s): %w", adjudicatorModel, err)
	}

	result, err := parseVerdict(raw)
	if err != nil {
		return nil, &AdjudicationParseError{Raw: raw, Err: err}
	}

	e.logEvent("debate_adjudicated", map[string]interface{}{
		"debate_id": d.ID,
		"winner":    string(result.Winner),
	})

	return result, nil
}

// parseVerdict extracts the JSON payload from the adjudicator's response and
// decodes it into a validated verdict. All four fields must be present:
// a missing score is a parse failure, not a zero.
func parseVerdict(raw string) (*debate.AdjudicationResult, error) {
	payload, err := extractPayload(raw)
	if err != nil {
		return nil, err
	}

	var fields struct {
		Winner       *string  `json:"winner"`
		ForScore     *float64 `json:"for_score"`
		AgainstScore *float64 `json:"against_score"`
		Reasoning    *string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if fields.Winner == nil || fields.ForScore == nil || fields.AgainstScore == nil || fields.Reasoning == nil {
		return nil, fmt.Errorf("response is missing one of winner, for_score, against_score, reasoning")
	}

	result := &debate.AdjudicationResult{
		Winner:       debate.Winner(*fields.Winner),
		ForScore:     *fields.ForScore,
		AgainstScore: *fields.AgainstScore,
		Reasoning:    *fields.Reasoning,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

const fenceMarker = "```"

// extractPayload tolerates the JSON payload being wrapped in a fenced block,
// with or without a json language tag. When an opening fence is present its
// closing fence is required; a fence with nothing between the markers is a
// failure. Text without fence markers is returned as-is.
func extractPayload(text string) (string, error) {
	if idx := strings.Index(text, fenceMarker+"json"); idx >= 0 {
		return innerPayload(text[idx+len(fenceMarker+"json"):])
	}
	if idx := strings.Index(text, fenceMarker); idx >= 0 {
		return innerPayload(text[idx+len(fenceMarker):])
	}
	return strings.TrimSpace(text), nil
}

// innerPayload returns the trimmed content before the next closing fence.
func innerPayload(rest string) (string, error) {
	closing := strings.Index(rest, fenceMarker)
	if closing < 0 {
		return "", fmt.Errorf("fence marker opened but never closed")
	}
	payload := strings.TrimSpace(rest[:closing])
	if payload == "" {
		return "", fmt.Errorf("no content between fence markers")
	}
	return payload, nil
}
