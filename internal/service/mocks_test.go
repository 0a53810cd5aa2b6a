package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/llm"
)

// stubProvider is a stateless llm.Provider returning a canned response.
// Safe for concurrent use by prefetch goroutines.
type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Name() string              { return "stub" }
func (s *stubProvider) AvailableModels() []string { return []string{"stub-1"} }
func (s *stubProvider) DefaultModel() string      { return "stub-1" }
func (s *stubProvider) IsConfigured() bool        { return true }

func (s *stubProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Text: s.response, Model: "stub-1"}, nil
}

// MockReportRepository is a testify mock of domain.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, limit, offset int) ([]domain.Report, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}
