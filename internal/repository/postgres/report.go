package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yukmats/visit-hearing/internal/domain"
)

// ReportRepository implements domain.ReportRepository
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{pool: db.Pool}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	slots, err := json.Marshal(report.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}
	transcript, err := json.Marshal(report.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	query := `
		INSERT INTO reports (id, session_id, slots, transcript, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.SessionID,
		slots,
		transcript,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `
		SELECT id, session_id, slots, transcript, created_at
		FROM reports
		WHERE id = $1
	`
	var report domain.Report
	var slots, transcript []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.SessionID,
		&slots,
		&transcript,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(slots, &report.Slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
	}
	if err := json.Unmarshal(transcript, &report.Transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]domain.Report, error) {
	query := `
		SELECT id, session_id, slots, transcript, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var report domain.Report
		var slots, transcript []byte
		if err := rows.Scan(
			&report.ID,
			&report.SessionID,
			&slots,
			&transcript,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal(slots, &report.Slots); err != nil {
			return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
		}
		if err := json.Unmarshal(transcript, &report.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
