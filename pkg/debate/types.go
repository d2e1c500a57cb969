package debate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a debate. Transitions move strictly
// forward: created -> in_progress -> completed. Completed is terminal.
type Status string

const (
	// StatusCreated means the debate exists but no turn has run yet.
	StatusCreated Status = "created"

	// StatusInProgress means at least one turn has started.
	StatusInProgress Status = "in_progress"

	// StatusCompleted means the turn ceiling was reached. Terminal.
	StatusCompleted Status = "completed"
)

// Role tags which side of the debate produced a message.
type Role string

const (
	// RoleFor is the agent arguing for the proposition.
	RoleFor Role = "for_agent"

	// RoleAgainst is the agent arguing against the proposition.
	RoleAgainst Role = "against_agent"
)

// Winner is the adjudicator's verdict on a completed debate.
type Winner string

const (
	WinnerFor     Winner = "for"
	WinnerAgainst Winner = "against"
	WinnerTie     Winner = "tie"
)

// DefaultMaxTurns is the turn ceiling applied when a debate is created
// without an explicit one.
const DefaultMaxTurns = 5

// Message is a single utterance in the debate transcript. Messages are
// append-only and alternate for_agent, against_agent, ... starting with
// for_agent.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Debate is the aggregate root for one debate session. Proposition and model
// selections are immutable after creation; messages, status and the turn
// counter are mutated by the orchestrator and written back through a Store.
type Debate struct {
	ID           string    `json:"debate_id"`
	Proposition  string    `json:"proposition"`
	ForModel     string    `json:"for_model"`
	AgainstModel string    `json:"against_model"`
	Status       Status    `json:"status"`
	Messages     []Message `json:"messages"`
	CurrentTurn  int       `json:"current_turn"`
	MaxTurns     int       `json:"max_turns"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdjudicationResult is the structured verdict produced by the adjudicator.
// It is returned transiently and never persisted as part of the debate.
type AdjudicationResult struct {
	Winner       Winner  `json:"winner"`
	ForScore     float64 `json:"for_score"`
	AgainstScore float64 `json:"against_score"`
	Reasoning    string  `json:"reasoning"`
}

// NewDebate constructs a debate in the created state with a fresh identifier.
// A non-positive maxTurns falls back to DefaultMaxTurns.
func NewDebate(proposition, forModel, againstModel string, maxTurns int) *Debate {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	return &Debate{
		ID:           uuid.New().String(),
		Proposition:  proposition,
		ForModel:     forModel,
		AgainstModel: againstModel,
		Status:       StatusCreated,
		Messages:     []Message{},
		CurrentTurn:  0,
		MaxTurns:     maxTurns,
		CreatedAt:    time.Now().UTC(),
	}
}

// AppendMessage appends an utterance for the given role, stamping it with the
// current time.
func (d *Debate) AppendMessage(role Role, content string) {
	d.Messages = append(d.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// Clone returns a deep copy of the debate. Stores hand out clones so that
// callers never alias the canonical record.
func (d *Debate) Clone() *Debate {
	cp := *d
	cp.Messages = make([]Message, len(d.Messages))
	copy(cp.Messages, d.Messages)
	return &cp
}

// Validate checks structural integrity of the debate record. It is called by
// stores before writes, catching corruption rather than business-rule
// violations.
func (d *Debate) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("debate ID cannot be empty")
	}
	if _, err := uuid.Parse(d.ID); err != nil {
		return fmt.Errorf("debate ID must be a valid UUID: %w", err)
	}
	if d.Proposition == "" {
		return fmt.Errorf("proposition cannot be empty")
	}
	if d.ForModel == "" || d.AgainstModel == "" {
		return fmt.Errorf("both for_model and against_model must be set")
	}
	if d.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", d.MaxTurns)
	}
	if d.CurrentTurn < 0 {
		return fmt.Errorf("current_turn cannot be negative, got %d", d.CurrentTurn)
	}
	switch d.Status {
	case StatusCreated, StatusInProgress, StatusCompleted:
	default:
		return fmt.Errorf("invalid status %q", d.Status)
	}
	for i, m := range d.Messages {
		if m.Role != RoleFor && m.Role != RoleAgainst {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	return nil
}

// Validate checks that the verdict is structurally complete: a known winner,
// both scores inside the 0-100 range, and non-empty reasoning.
func (r *AdjudicationResult) Validate() error {
	switch r.Winner {
	case WinnerFor, WinnerAgainst, WinnerTie:
	default:
		return fmt.Errorf("invalid winner %q: must be one of for, against, tie", r.Winner)
	}
	if r.ForScore < 0 || r.ForScore > 100 {
		return fmt.Errorf("for_score %v out of range [0,100]", r.ForScore)
	}
	if r.AgainstScore < 0 || r.AgainstScore > 100 {
		return fmt.Errorf("against_score %v out of range [0,100]", r.AgainstScore)
	}
	if r.Reasoning == "" {
		return fmt.Errorf("reasoning cannot be empty")
	}
	return nil
}
