package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"recruitdesk/screening-service/internal/models"
)

// ScreeningClient sends an encoded resume plus the screening instruction to
// the reasoning service and parses the structured result. No retries here;
// the next poll cycle is the retry mechanism for mailbox-sourced work.
type ScreeningClient interface {
	Screen(ctx context.Context, input models.ScreeningInput, criteria []models.ScoringCriterion) (*models.ScreeningResult, error)
}

type screeningClient struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
}

func NewScreeningClient(gemini GeminiService) ScreeningClient {
	return &screeningClient{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
	}
}

// rawScreeningResponse is the reasoning service's vocabulary. Mapped onto
// models.ScreeningResult after validation, never trusted as-is.
type rawScreeningResponse struct {
	CandidateName     string  `json:"candidate_name"`
	CandidateEmail    *string `json:"candidate_email"`
	CandidatePhone    *string `json:"candidate_phone"`
	JobApplied        string  `json:"job_applied"`
	JobMatched        string  `json:"job_matched"`
	Score             int     `json:"score"`
	CitizenshipStatus string  `json:"citizenship_status"`
	Recommendation    string  `json:"recommendation"`
	Summary           string  `json:"summary"`
}

// Screen implements ScreeningClient.
func (s *screeningClient) Screen(ctx context.Context, input models.ScreeningInput, criteria []models.ScoringCriterion) (*models.ScreeningResult, error) {
	document, err := base64.StdEncoding.DecodeString(input.DocumentBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	prompt := s.promptBuilder.BuildScreeningPrompt(input.ContextLabel, criteria)
	log.Printf("📝 Screening prompt length: %d characters", len(prompt))

	response, err := s.gemini.GenerateWithDocument(ctx, prompt, document, input.MediaType)
	if err != nil {
		return nil, err
	}

	return parseScreeningResponse(response)
}

func parseScreeningResponse(response string) (*models.ScreeningResult, error) {
	jsonStr := extractJSON(response)

	var raw rawScreeningResponse
	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Reason: "response is not the expected JSON object", Raw: response, Err: err}
	}

	if raw.CandidateName == "" {
		return nil, &ParseError{Reason: "candidate_name is empty", Raw: response}
	}
	if raw.Score < 1 || raw.Score > 10 {
		return nil, &ParseError{Reason: fmt.Sprintf("score %d outside 1..10", raw.Score), Raw: response}
	}

	recommendation, ok := models.ParseRecommendation(raw.Recommendation)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("unknown recommendation %q", raw.Recommendation), Raw: response}
	}

	return &models.ScreeningResult{
		CandidateName:     raw.CandidateName,
		CandidateEmail:    raw.CandidateEmail,
		CandidatePhone:    raw.CandidatePhone,
		RoleApplied:       raw.JobApplied,
		RoleMatched:       raw.JobMatched,
		Score:             raw.Score,
		CitizenshipStatus: models.ParseCitizenshipStatus(raw.CitizenshipStatus),
		Recommendation:    recommendation,
		Summary:           raw.Summary,
	}, nil
}

// extractJSON pulls the JSON object out of text that might wrap it in
// markdown or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
