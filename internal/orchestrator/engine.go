// Package orchestrator drives debate turns and adjudication. The Engine is
// the only component that mutates debate records: it loads a working copy
// from the store, invokes the provider adapter for each side, and writes the
// copy back once the full turn has succeeded. A failed provider call leaves
// the store untouched, so a retried turn re-runs from the last persisted
// state.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dyluth/moot/internal/provider"
	"github.com/dyluth/moot/pkg/debate"
)

// Generator is the slice of the provider adapter the engine depends on.
// *provider.Registry satisfies it; tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, model, systemPrompt string, history []provider.Turn, creds provider.Credentials) (string, error)
}

// Engine orchestrates turn-taking and adjudication over a debate store.
// All mutation of a single debate is serialized through a per-debate lock,
// closing the read-modify-write race the stores themselves do not guard
// against.
type Engine struct {
	store debate.Store
	gen   Generator
	locks *lockRegistry
}

// NewEngine creates an engine over the given store and provider adapter.
func NewEngine(store debate.Store, gen Generator) *Engine {
	return &Engine{
		store: store,
		gen:   gen,
		locks: newLockRegistry(),
	}
}

// ConductTurn runs one full debate turn: the FOR agent speaks, then the
// AGAINST agent speaks with the FOR message already in view. The turn
// counter advances by one and the debate completes when it reaches the
// ceiling. The updated debate is persisted and returned.
//
// Fails with debate.ErrNotFound for unknown identifiers and
// debate.ErrAlreadyCompleted once the debate is complete. Provider failures
// surface as provider errors with nothing persisted.
func (e *Engine) ConductTurn(ctx context.Context, debateID string, creds provider.Credentials) (*debate.Debate, error) {
	unlock := e.locks.lock(debateID)
	defer unlock()

	d, err := e.store.Get(ctx, debateID)
	if err != nil {
		return nil, err
	}

	if d.Status == debate.StatusCompleted {
		return nil, debate.ErrAlreadyCompleted
	}

	if d.Status == debate.StatusCreated {
		d.Status = debate.StatusInProgress
	}

	// FOR speaks first. Its view of history: own messages as self, the
	// opponent's as other.
	forText, err := e.gen.Generate(ctx, d.ForModel, forSystemPrompt(d.Proposition),
		agentView(d.Messages, debate.RoleFor), creds)
	if err != nil {
		return nil, fmt.Errorf("FOR agent (%s): %w", d.ForModel, err)
	}
	d.AppendMessage(debate.RoleFor, forText)

	// AGAINST rebuts the current-turn FOR message, so its view includes the
	// message just appended.
	againstText, err := e.gen.Generate(ctx, d.AgainstModel, againstSystemPrompt(d.Proposition),
		agentView(d.Messages, debate.RoleAgainst), creds)
	if err != nil {
		return nil, fmt.Errorf("AGAINST agent (%s): %w", d.AgainstModel, err)
	}
	d.AppendMessage(debate.RoleAgainst, againstText)

	d.CurrentTurn++
	if d.CurrentTurn >= d.MaxTurns {
		d.Status = debate.StatusCompleted
	}

	if err := e.store.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to persist turn: %w", err)
	}

	e.logEvent("turn_completed", map[string]interface{}{
		"debate_id":    d.ID,
		"current_turn": d.CurrentTurn,
		"status":       string(d.Status),
	})

	return d, nil
}

// RunToCompletion calls ConductTurn until the debate reaches the completed
// state. Each iteration persists its turn, so a mid-run failure loses at
// most the in-flight turn.
func (e *Engine) RunToCompletion(ctx context.Context, debateID string, creds provider.Credentials) (*debate.Debate, error) {
	for {
		d, err := e.ConductTurn(ctx, debateID, creds)
		if err != nil {
			return nil, err
		}
		if d.Status == debate.StatusCompleted {
			return d, nil
		}
	}
}

// agentView translates the transcript into the given agent's point of view:
// its own messages become self turns, the opponent's become other turns.
func agentView(messages []debate.Message, self debate.Role) []provider.Turn {
	view := make([]provider.Turn, 0, len(messages))
	for _, m := range messages {
		speaker := provider.SpeakerOther
		if m.Role == self {
			speaker = provider.SpeakerSelf
		}
		view = append(view, provider.Turn{Speaker: speaker, Text: m.Content})
	}
	return view
}

func (e *Engine) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "orchestrator"
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Orchestrator] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
