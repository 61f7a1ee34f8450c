package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"recruitdesk/screening-service/internal/models"
	"recruitdesk/screening-service/internal/repositories"
)

// Committer turns a screening result into the durable candidate/activity
// pair. Creates are not deduplicated downstream, so callers must invoke it
// exactly once per successful screening.
type Committer interface {
	CommitScreening(ctx context.Context, result *models.ScreeningResult, source models.SourceChannel, resumeText string) (*models.Candidate, *models.Activity, error)
}

type committer struct {
	candidateRepo repositories.CandidateRepository
	activityRepo  repositories.ActivityRepository
}

func NewCommitter(
	candidateRepo repositories.CandidateRepository,
	activityRepo repositories.ActivityRepository,
) Committer {
	return &committer{
		candidateRepo: candidateRepo,
		activityRepo:  activityRepo,
	}
}

// CommitScreening implements Committer.
func (c *committer) CommitScreening(ctx context.Context, result *models.ScreeningResult, source models.SourceChannel, resumeText string) (*models.Candidate, *models.Activity, error) {
	status, nextAction := statusForRecommendation(result.Recommendation)

	candidate := &models.Candidate{
		ID:                uuid.New(),
		Name:              result.CandidateName,
		Email:             result.CandidateEmail,
		Phone:             result.CandidatePhone,
		RoleApplied:       result.RoleApplied,
		RoleMatched:       result.RoleMatched,
		Score:             result.Score,
		CitizenshipStatus: result.CitizenshipStatus,
		Recommendation:    result.Recommendation,
		Summary:           result.Summary,
		SourceChannel:     source,
		Status:            status,
		NextAction:        nextAction,
		ResumeText:        resumeText,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := c.candidateRepo.Create(candidate); err != nil {
		return nil, nil, fmt.Errorf("failed to commit candidate: %w", err)
	}

	activity := &models.Activity{
		ID:          uuid.New(),
		CandidateID: candidate.ID,
		Kind:        "automated_screening",
		Outcome:     outcomeForRecommendation(result.Recommendation),
		Notes:       fmt.Sprintf("Scored %d/10 for %s. %s", result.Score, result.RoleMatched, result.Summary),
		CreatedAt:   time.Now(),
	}

	if err := c.activityRepo.Create(activity); err != nil {
		return nil, nil, fmt.Errorf("failed to commit activity: %w", err)
	}

	log.Printf("💾 Committed candidate %s (%s, %s)\n", candidate.ID, candidate.Name, candidate.Status)
	return candidate, activity, nil
}

// statusForRecommendation owns the recommendation-to-status mapping so it
// can evolve independently of the reasoning service's vocabulary. Rejected
// routes to the rejected status; everything else needs review.
func statusForRecommendation(r models.Recommendation) (models.CandidateStatus, string) {
	if r == models.RecommendationRejected {
		return models.StatusRejected, "Send rejection note"
	}
	return models.StatusNeedsReview, "Review screening result"
}

func outcomeForRecommendation(r models.Recommendation) models.ActivityOutcome {
	switch r {
	case models.RecommendationTopCandidate:
		return models.OutcomeTopCandidate
	case models.RecommendationRejected:
		return models.OutcomeRejected
	default:
		return models.OutcomeReview
	}
}
