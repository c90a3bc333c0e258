package mocks

import (
	"context"
	"sync"

	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/translation"
)

// MockTranslationService implements translation.Service for testing.
type MockTranslationService struct {
	// GenerateFn allows test cases to mock GenerateTranslation.
	GenerateFn func(ctx context.Context, req translation.GenerateRequest) (string, error)

	// EvaluateFn allows test cases to mock EvaluateTranslation.
	EvaluateFn func(ctx context.Context, req translation.EvaluateRequest) (*domain.EvaluationResult, error)

	// Default responses used when the function fields are nil.
	Translation string
	Evaluation  *domain.EvaluationResult
	GenerateErr error
	EvaluateErr error

	mu            sync.Mutex
	GenerateCalls int
	EvaluateCalls int
}

// Ensure MockTranslationService implements translation.Service
var _ translation.Service = (*MockTranslationService)(nil)

// GenerateTranslation implements translation.Service.GenerateTranslation.
func (m *MockTranslationService) GenerateTranslation(
	ctx context.Context,
	req translation.GenerateRequest,
) (string, error) {
	m.mu.Lock()
	m.GenerateCalls++
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.Translation, nil
}

// EvaluateTranslation implements translation.Service.EvaluateTranslation.
func (m *MockTranslationService) EvaluateTranslation(
	ctx context.Context,
	req translation.EvaluateRequest,
) (*domain.EvaluationResult, error) {
	m.mu.Lock()
	m.EvaluateCalls++
	m.mu.Unlock()

	if m.EvaluateFn != nil {
		return m.EvaluateFn(ctx, req)
	}
	if m.EvaluateErr != nil {
		return nil, m.EvaluateErr
	}
	if m.Evaluation != nil {
		return m.Evaluation, nil
	}
	return &domain.EvaluationResult{
		Correct:              true,
		Score:                1.0,
		Feedback:             "ok",
		SuggestedTranslation: req.Reference,
	}, nil
}
