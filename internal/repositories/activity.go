package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruitdesk/screening-service/internal/models"
)

type ActivityRepository interface {
	Create(activity *models.Activity) error
	FindByCandidateID(candidateID uuid.UUID) ([]models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create implements ActivityRepository.
func (r *activityRepository) Create(activity *models.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// FindByCandidateID implements ActivityRepository.
func (r *activityRepository) FindByCandidateID(candidateID uuid.UUID) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}

	return activities, nil
}
