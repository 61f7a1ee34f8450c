package models

import "time"

type ScreenResponse struct {
	CandidateID string           `json:"candidate_id"`
	ActivityID  string           `json:"activity_id"`
	Result      *ScreeningResult `json:"result"`
}

type RoleSuggestion struct {
	Title string  `json:"title"`
	Score float32 `json:"score"`
}

type MonitoringRequest struct {
	Enabled bool `json:"enabled"`
}

type MailboxStatusResponse struct {
	Connected      bool                   `json:"connected"`
	AccountEmail   string                 `json:"account_email,omitempty"`
	Monitoring     bool                   `json:"monitoring"`
	Polling        bool                   `json:"polling"`
	LastCheckedAt  *time.Time             `json:"last_checked_at,omitempty"`
	ProcessedCount int64                  `json:"processed_count"`
	Recent         []ProcessedEmailRecord `json:"recent"`
	Errors         []PollError            `json:"errors"`
}

// ProcessedEmailRecord is the audit trail of one mailbox message turned into
// a screening result. Held only in the in-memory recent list; the durable
// record is the candidate/activity pair.
type ProcessedEmailRecord struct {
	MessageID      string           `json:"message_id"`
	Subject        string           `json:"subject"`
	FromAddress    string           `json:"from_address"`
	ReceivedAt     time.Time        `json:"received_at"`
	AttachmentName string           `json:"attachment_name"`
	Result         *ScreeningResult `json:"result"`
	ProcessedAt    time.Time        `json:"processed_at"`
}

type PollError struct {
	MessageID  string    `json:"message_id"`
	Subject    string    `json:"subject"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}
