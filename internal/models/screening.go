package models

// ScoringCriterion is one job role's evaluation rubric, fetched fresh from
// the criteria spreadsheet on every screening run.
type ScoringCriterion struct {
	Title        string `json:"title"`
	Requirements string `json:"requirements"`
	ScoringGuide string `json:"scoring_guide"`
}

// SourceChannel records where an application arrived from. Carried onto the
// candidate record, never used in scoring.
type SourceChannel string

const (
	SourceJobBoard SourceChannel = "job_board"
	SourceReferral SourceChannel = "referral"
	SourceEmail    SourceChannel = "email"
	SourceChat     SourceChannel = "chat"
	SourceManual   SourceChannel = "manual"
)

type CitizenshipStatus string

const (
	CitizenshipSC            CitizenshipStatus = "SC"
	CitizenshipPR            CitizenshipStatus = "PR"
	CitizenshipNotIdentified CitizenshipStatus = "NotIdentified"
	CitizenshipForeign       CitizenshipStatus = "Foreign"
)

type Recommendation string

const (
	RecommendationTopCandidate Recommendation = "TopCandidate"
	RecommendationReview       Recommendation = "Review"
	RecommendationRejected     Recommendation = "Rejected"
)

// ScreeningInput is the request handed to the screening client.
type ScreeningInput struct {
	DocumentBase64 string
	ContextLabel   string
	SourceChannel  SourceChannel
	MediaType      string
}

// ScreeningResult is the structured output of one screening call. Created
// once, immediately consumed to build a candidate/activity pair, never
// mutated.
type ScreeningResult struct {
	CandidateName     string            `json:"candidate_name"`
	CandidateEmail    *string           `json:"candidate_email"`
	CandidatePhone    *string           `json:"candidate_phone"`
	RoleApplied       string            `json:"role_applied"`
	RoleMatched       string            `json:"role_matched"`
	Score             int               `json:"score"`
	CitizenshipStatus CitizenshipStatus `json:"citizenship_status"`
	Recommendation    Recommendation    `json:"recommendation"`
	Summary           string            `json:"summary"`
}

// ParseCitizenshipStatus maps the reasoning service's vocabulary onto ours.
// Anything unrecognised falls back to NotIdentified, never to SC or Foreign.
func ParseCitizenshipStatus(s string) CitizenshipStatus {
	switch s {
	case "Singapore Citizen":
		return CitizenshipSC
	case "PR":
		return CitizenshipPR
	case "Foreigner":
		return CitizenshipForeign
	default:
		return CitizenshipNotIdentified
	}
}

// ParseRecommendation maps the reasoning service's vocabulary onto ours.
// The second return reports whether the value was recognised; an
// unrecognised recommendation is a contract violation, not a default.
func ParseRecommendation(s string) (Recommendation, bool) {
	switch s {
	case "Top Candidate":
		return RecommendationTopCandidate, true
	case "Review":
		return RecommendationReview, true
	case "Rejected":
		return RecommendationRejected, true
	default:
		return "", false
	}
}
