package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a hearing session
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// ConversationTurn is one question/answer exchange within a session
type ConversationTurn struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
	AllowMultiple bool     `json:"allow_multiple"`
}

// Session holds the full state of one hearing interview.
// TurnIndex increases by exactly one per processed answer, and
// AskedQuestions always holds TurnIndex+1 entries while active.
// A session moves to StatusCompleted exactly once and never reverts.
type Session struct {
	ID             uuid.UUID          `json:"id"`
	TurnIndex      int                `json:"turn_index"`
	TotalTurns     int                `json:"total_turns"`
	Slots          map[string]string  `json:"slots"`
	AskedQuestions []string           `json:"asked_questions"`
	History        []ConversationTurn `json:"history"`
	Status         SessionStatus      `json:"status"`
	Reference      ReferenceData      `json:"reference,omitempty"`
	DataSource     DataSource         `json:"data_source,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// LastQuestion returns the most recently asked question, or "" for a fresh session
func (s *Session) LastQuestion() string {
	if len(s.AskedQuestions) == 0 {
		return ""
	}
	return s.AskedQuestions[len(s.AskedQuestions)-1]
}
