package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report is the persisted outcome of a completed hearing: the final slot
// map plus the full conversation transcript.
type Report struct {
	ID         uuid.UUID          `json:"id"`
	SessionID  uuid.UUID          `json:"session_id"`
	Slots      map[string]string  `json:"slots"`
	Transcript []ConversationTurn `json:"transcript"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ReportRepository defines the interface for report persistence
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, limit, offset int) ([]Report, error)
}
