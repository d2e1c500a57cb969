package debate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Serialization helpers for the Redis-backed store.
//
// Redis stores data as string-to-string maps (hashes). Scalar debate fields
// map to individual hash fields so they stay inspectable with HGETALL; the
// message transcript is JSON-encoded into a single field. Timestamps are
// stored as Unix milliseconds.

// DebateToHash converts a Debate to its Redis hash representation.
func DebateToHash(d *Debate) (map[string]interface{}, error) {
	messagesJSON, err := json.Marshal(d.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	hash := map[string]interface{}{
		"id":            d.ID,
		"proposition":   d.Proposition,
		"for_model":     d.ForModel,
		"against_model": d.AgainstModel,
		"status":        string(d.Status),
		"messages":      string(messagesJSON),
		"current_turn":  d.CurrentTurn,
		"max_turns":     d.MaxTurns,
		"created_at_ms": d.CreatedAt.UnixMilli(),
	}

	return hash, nil
}

// HashToDebate converts a Redis hash back to a Debate.
func HashToDebate(hash map[string]string) (*Debate, error) {
	currentTurn, err := strconv.Atoi(hash["current_turn"])
	if err != nil {
		return nil, fmt.Errorf("invalid current_turn field: %w", err)
	}

	maxTurns, err := strconv.Atoi(hash["max_turns"])
	if err != nil {
		return nil, fmt.Errorf("invalid max_turns field: %w", err)
	}

	createdAtMs, err := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at_ms field: %w", err)
	}

	var messages []Message
	if messagesJSON := hash["messages"]; messagesJSON != "" {
		if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
	}

	// Ensure an empty slice instead of nil for consistency
	if messages == nil {
		messages = []Message{}
	}

	return &Debate{
		ID:           hash["id"],
		Proposition:  hash["proposition"],
		ForModel:     hash["for_model"],
		AgainstModel: hash["against_model"],
		Status:       Status(hash["status"]),
		Messages:     messages,
		CurrentTurn:  currentTurn,
		MaxTurns:     maxTurns,
		CreatedAt:    time.UnixMilli(createdAtMs).UTC(),
	}, nil
}
