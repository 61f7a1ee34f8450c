package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"recruitdesk/screening-service/internal/models"
)

type mockCriteriaService struct {
	mock.Mock
}

func (m *mockCriteriaService) FetchCriteria(ctx context.Context) ([]models.ScoringCriterion, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.ScoringCriterion), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockScreeningClient struct {
	mock.Mock
}

func (m *mockScreeningClient) Screen(ctx context.Context, input models.ScreeningInput, criteria []models.ScoringCriterion) (*models.ScreeningResult, error) {
	args := m.Called(ctx, input, criteria)
	if v := args.Get(0); v != nil {
		return v.(*models.ScreeningResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// channelAuditLogger records appended results on a channel so the test can
// wait out the detached goroutine.
type channelAuditLogger struct {
	appended chan *models.ScreeningResult
	err      error
}

func newChannelAuditLogger(err error) *channelAuditLogger {
	return &channelAuditLogger{
		appended: make(chan *models.ScreeningResult, 1),
		err:      err,
	}
}

func (l *channelAuditLogger) Append(ctx context.Context, result *models.ScreeningResult) error {
	l.appended <- result
	return l.err
}

func sampleResult() *models.ScreeningResult {
	return &models.ScreeningResult{
		CandidateName:     "Tan Wei Ling",
		RoleApplied:       "Accounts Executive",
		RoleMatched:       "Accounts Executive",
		Score:             8,
		CitizenshipStatus: models.CitizenshipSC,
		Recommendation:    models.RecommendationTopCandidate,
		Summary:           "Strong match.",
	}
}

func sampleCriteria() []models.ScoringCriterion {
	return []models.ScoringCriterion{
		{Title: "Accounts Executive", Requirements: "3y AP/AR", ScoringGuide: "7+ shortlist"},
	}
}

func sampleInput() models.ScreeningInput {
	return models.ScreeningInput{
		DocumentBase64: "ZmFrZQ==",
		ContextLabel:   "Job application - Accounts Executive",
		SourceChannel:  models.SourceManual,
		MediaType:      "application/pdf",
	}
}

func TestRunScreening(t *testing.T) {
	t.Run("rejects empty context label before fetching criteria", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		screener := new(mockScreeningClient)

		orch := NewOrchestrator(criteria, screener, nil, nil)
		input := sampleInput()
		input.ContextLabel = "   "

		result, err := orch.RunScreening(context.Background(), input)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrEmptyContextLabel)
		criteria.AssertNotCalled(t, "FetchCriteria")
	})

	t.Run("refuses to screen with empty criteria", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		criteria.On("FetchCriteria", mock.Anything).Return([]models.ScoringCriterion{}, nil)
		screener := new(mockScreeningClient)

		orch := NewOrchestrator(criteria, screener, nil, nil)
		result, err := orch.RunScreening(context.Background(), sampleInput())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrNoCriteriaAvailable)
		screener.AssertNotCalled(t, "Screen")
	})

	t.Run("propagates criteria fetch failure", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		upstream := &UpstreamError{Op: "criteria fetch", Status: 403, Body: "forbidden"}
		criteria.On("FetchCriteria", mock.Anything).Return(nil, upstream)
		screener := new(mockScreeningClient)

		orch := NewOrchestrator(criteria, screener, nil, nil)
		_, err := orch.RunScreening(context.Background(), sampleInput())

		var upErr *UpstreamError
		assert.ErrorAs(t, err, &upErr)
		screener.AssertNotCalled(t, "Screen")
	})

	t.Run("appends audit row after success", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		criteria.On("FetchCriteria", mock.Anything).Return(sampleCriteria(), nil)
		screener := new(mockScreeningClient)
		screener.On("Screen", mock.Anything, mock.Anything, sampleCriteria()).Return(sampleResult(), nil)
		audit := newChannelAuditLogger(nil)

		orch := NewOrchestrator(criteria, screener, audit, nil)
		result, err := orch.RunScreening(context.Background(), sampleInput())

		assert.NoError(t, err)
		assert.Equal(t, "Tan Wei Ling", result.CandidateName)

		select {
		case appended := <-audit.appended:
			assert.Equal(t, result, appended)
		case <-time.After(2 * time.Second):
			t.Fatal("audit append was never invoked")
		}
	})

	t.Run("audit failure does not fail the screening", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		criteria.On("FetchCriteria", mock.Anything).Return(sampleCriteria(), nil)
		screener := new(mockScreeningClient)
		screener.On("Screen", mock.Anything, mock.Anything, mock.Anything).Return(sampleResult(), nil)
		audit := newChannelAuditLogger(errors.New("sheet unavailable"))

		orch := NewOrchestrator(criteria, screener, audit, nil)
		result, err := orch.RunScreening(context.Background(), sampleInput())

		assert.NoError(t, err)
		assert.NotNil(t, result)

		select {
		case <-audit.appended:
		case <-time.After(2 * time.Second):
			t.Fatal("audit append was never invoked")
		}
	})

	t.Run("screening failure skips the audit row", func(t *testing.T) {
		criteria := new(mockCriteriaService)
		criteria.On("FetchCriteria", mock.Anything).Return(sampleCriteria(), nil)
		screener := new(mockScreeningClient)
		screener.On("Screen", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &ParseError{Reason: "score 0 outside 1..10"})
		audit := newChannelAuditLogger(nil)

		orch := NewOrchestrator(criteria, screener, audit, nil)
		result, err := orch.RunScreening(context.Background(), sampleInput())

		assert.Nil(t, result)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)

		select {
		case <-audit.appended:
			t.Fatal("audit row appended for a failed screening")
		case <-time.After(200 * time.Millisecond):
		}
	})
}
