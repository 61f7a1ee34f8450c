package models

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusNeedsReview CandidateStatus = "needs_review"
	StatusRejected    CandidateStatus = "rejected"
)

type ActivityOutcome string

const (
	OutcomeTopCandidate ActivityOutcome = "top_candidate"
	OutcomeReview       ActivityOutcome = "review"
	OutcomeRejected     ActivityOutcome = "rejected"
)

type Candidate struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name              string            `gorm:"type:text;not null" json:"name"`
	Email             *string           `gorm:"type:text" json:"email,omitempty"`
	Phone             *string           `gorm:"type:text" json:"phone,omitempty"`
	RoleApplied       string            `gorm:"type:text" json:"role_applied"`
	RoleMatched       string            `gorm:"type:text" json:"role_matched"`
	Score             int               `gorm:"not null" json:"score"`
	CitizenshipStatus CitizenshipStatus `gorm:"type:text" json:"citizenship_status"`
	Recommendation    Recommendation    `gorm:"type:text" json:"recommendation"`
	Summary           string            `gorm:"type:text" json:"summary"`
	SourceChannel     SourceChannel     `gorm:"type:text" json:"source_channel"`
	Status            CandidateStatus   `gorm:"type:text;not null" json:"status"`
	NextAction        string            `gorm:"type:text" json:"next_action"`
	ResumeText        string            `gorm:"type:text" json:"-"`
	CreatedAt         time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// Activity records that an automated screening happened for a candidate.
type Activity struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID uuid.UUID       `gorm:"type:uuid;not null" json:"candidate_id"`
	Kind        string          `gorm:"type:text;not null" json:"kind"`
	Outcome     ActivityOutcome `gorm:"type:text" json:"outcome"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"type:timestamp;default:now()" json:"created_at"`

	// Relations
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}
