package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"recruitdesk/screening-service/internal/models"
)

type mockGeminiService struct {
	mock.Mock
}

func (m *mockGeminiService) GenerateWithDocument(ctx context.Context, prompt string, document []byte, mediaType string) (string, error) {
	args := m.Called(ctx, prompt, document, mediaType)
	return args.String(0), args.Error(1)
}

func (m *mockGeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

const validResponse = `{
	"candidate_name": "Tan Wei Ling",
	"candidate_email": "weiling@example.com",
	"candidate_phone": "+65 9123 4567",
	"job_applied": "Accounts Executive",
	"job_matched": "Accounts Executive",
	"score": 8,
	"citizenship_status": "Singapore Citizen",
	"recommendation": "Top Candidate",
	"summary": "Strong match. NRIC S-prefix confirms citizenship."
}`

func TestParseScreeningResponse(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		result, err := parseScreeningResponse(validResponse)

		assert.NoError(t, err)
		assert.Equal(t, "Tan Wei Ling", result.CandidateName)
		assert.Equal(t, "weiling@example.com", *result.CandidateEmail)
		assert.Equal(t, "+65 9123 4567", *result.CandidatePhone)
		assert.Equal(t, "Accounts Executive", result.RoleMatched)
		assert.Equal(t, 8, result.Score)
		assert.Equal(t, models.CitizenshipSC, result.CitizenshipStatus)
		assert.Equal(t, models.RecommendationTopCandidate, result.Recommendation)
	})

	t.Run("markdown fenced response", func(t *testing.T) {
		fenced := "Here is the evaluation:\n```json\n" + validResponse + "\n```\n"

		result, err := parseScreeningResponse(fenced)

		assert.NoError(t, err)
		assert.Equal(t, "Tan Wei Ling", result.CandidateName)
	})

	t.Run("null contact fields", func(t *testing.T) {
		result, err := parseScreeningResponse(`{
			"candidate_name": "Alex Ong",
			"candidate_email": null,
			"candidate_phone": null,
			"job_applied": "Driver",
			"job_matched": "Driver",
			"score": 5,
			"citizenship_status": "Unknown",
			"recommendation": "Review",
			"summary": "No contact details on resume."
		}`)

		assert.NoError(t, err)
		assert.Nil(t, result.CandidateEmail)
		assert.Nil(t, result.CandidatePhone)
		assert.Equal(t, models.CitizenshipNotIdentified, result.CitizenshipStatus)
	})
}

func TestParseScreeningResponseRejectsContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "not JSON at all",
			response: "I could not evaluate this resume.",
		},
		{
			name: "empty candidate name",
			response: `{"candidate_name": "", "candidate_email": null, "candidate_phone": null,
				"job_applied": "Driver", "job_matched": "Driver", "score": 5,
				"citizenship_status": "Unknown", "recommendation": "Review", "summary": "x"}`,
		},
		{
			name: "score below range",
			response: `{"candidate_name": "A", "candidate_email": null, "candidate_phone": null,
				"job_applied": "Driver", "job_matched": "Driver", "score": 0,
				"citizenship_status": "Unknown", "recommendation": "Review", "summary": "x"}`,
		},
		{
			name: "score above range",
			response: `{"candidate_name": "A", "candidate_email": null, "candidate_phone": null,
				"job_applied": "Driver", "job_matched": "Driver", "score": 11,
				"citizenship_status": "Unknown", "recommendation": "Review", "summary": "x"}`,
		},
		{
			name: "unknown recommendation",
			response: `{"candidate_name": "A", "candidate_email": null, "candidate_phone": null,
				"job_applied": "Driver", "job_matched": "Driver", "score": 5,
				"citizenship_status": "Unknown", "recommendation": "Maybe", "summary": "x"}`,
		},
		{
			name: "unexpected field",
			response: `{"candidate_name": "A", "candidate_email": null, "candidate_phone": null,
				"job_applied": "Driver", "job_matched": "Driver", "score": 5,
				"citizenship_status": "Unknown", "recommendation": "Review", "summary": "x",
				"confidence": 0.9}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseScreeningResponse(tt.response)

			assert.Nil(t, result)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.NotEmpty(t, parseErr.Raw)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "object inside prose",
			input:    "Sure, here you go: {\"a\": 1} Hope that helps!",
			expected: `{"a": 1}`,
		},
		{
			name:     "fenced object",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "no object present",
			input:    "no json here",
			expected: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.input))
		})
	}
}

func TestScreen(t *testing.T) {
	criteria := []models.ScoringCriterion{
		{Title: "Accounts Executive", Requirements: "3y AP/AR", ScoringGuide: "7+ shortlist"},
	}
	document := []byte("%PDF-1.4 fake resume")

	t.Run("decodes document and parses response", func(t *testing.T) {
		gemini := new(mockGeminiService)
		gemini.On("GenerateWithDocument", mock.Anything, mock.Anything, document, "application/pdf").
			Return(validResponse, nil)

		client := NewScreeningClient(gemini)
		result, err := client.Screen(context.Background(), models.ScreeningInput{
			DocumentBase64: base64.StdEncoding.EncodeToString(document),
			ContextLabel:   "Job application - Accounts Executive",
			SourceChannel:  models.SourceEmail,
			MediaType:      "application/pdf",
		}, criteria)

		assert.NoError(t, err)
		assert.Equal(t, "Tan Wei Ling", result.CandidateName)
		gemini.AssertExpectations(t)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		gemini := new(mockGeminiService)

		client := NewScreeningClient(gemini)
		result, err := client.Screen(context.Background(), models.ScreeningInput{
			DocumentBase64: "not-base64!!",
			ContextLabel:   "Job application",
			MediaType:      "application/pdf",
		}, criteria)

		assert.Error(t, err)
		assert.Nil(t, result)
		gemini.AssertNotCalled(t, "GenerateWithDocument")
	})

	t.Run("propagates upstream errors", func(t *testing.T) {
		gemini := new(mockGeminiService)
		upstream := &UpstreamError{Op: "gemini generate", Status: 503, Body: "overloaded"}
		gemini.On("GenerateWithDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", upstream)

		client := NewScreeningClient(gemini)
		_, err := client.Screen(context.Background(), models.ScreeningInput{
			DocumentBase64: base64.StdEncoding.EncodeToString(document),
			ContextLabel:   "Job application",
			MediaType:      "application/pdf",
		}, criteria)

		var upErr *UpstreamError
		assert.ErrorAs(t, err, &upErr)
	})
}
