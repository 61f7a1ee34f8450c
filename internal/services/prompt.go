package services

import (
	"fmt"
	"strings"

	"recruitdesk/screening-service/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScreeningPrompt creates the instruction sent alongside the resume
// document. The criteria block is serialized one role per line so the model
// can match the applied role against the rubric set.
func (pb *PromptBuilder) BuildScreeningPrompt(contextLabel string, criteria []models.ScoringCriterion) string {
	return fmt.Sprintf(`You are analyzing a resume for a staffing agency. Your task is to evaluate the candidate.

APPLICATION CONTEXT: %s

AVAILABLE JOB ROLES:
%s

INSTRUCTIONS:
1. Identify which job role the candidate is applying for from the application context. If the context does not clearly indicate a role, infer it from the candidate's experience. Match to one of the available roles.
2. Analyze the resume against that role's requirements.
3. Extract contact information (email, phone) if visible.

CITIZENSHIP REQUIREMENT (CRITICAL):
Most roles require Singapore Citizens or Permanent Residents. Look for indicators:
- NRIC number (S/T prefix = Citizen, F/G prefix = PR)
- National Service (NS) completion
- Singapore address
- Local education (NUS, NTU, SMU, polytechnics, ITE)
- Explicit mention of citizenship/PR status

Decide citizenship_status as follows: SC/PR indicators present means "Singapore Citizen" or "PR"; an explicit foreign indicator (work permit, employment pass, student pass, foreign nationality) means "Foreigner"; if no cue is found, use "Unknown". Never guess.

RESPONSE FORMAT:
Return ONLY a JSON object with no other text:
{
    "candidate_name": "Full name from resume",
    "candidate_email": "email@example.com or null",
    "candidate_phone": "+65 XXXX XXXX or null",
    "job_applied": "Role from context if mentioned",
    "job_matched": "Best matching role from the list above",
    "score": 7,
    "citizenship_status": "Singapore Citizen|PR|Unknown|Foreigner",
    "recommendation": "Top Candidate|Review|Rejected",
    "summary": "Brief evaluation including citizenship verification"
}

Use the scoring guide for the matched role. Score 1-10.`,
		contextLabel,
		SerializeCriteria(criteria),
	)
}

// SerializeCriteria renders the rubric set as a compact line-oriented block.
func SerializeCriteria(criteria []models.ScoringCriterion) string {
	lines := make([]string, 0, len(criteria))
	for _, c := range criteria {
		lines = append(lines, fmt.Sprintf("%s | Requirements: %s | Scoring: %s",
			c.Title, c.Requirements, c.ScoringGuide))
	}
	return strings.Join(lines, "\n")
}
