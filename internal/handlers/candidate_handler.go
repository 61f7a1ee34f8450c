package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitdesk/screening-service/internal/repositories"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	activityRepo  repositories.ActivityRepository
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	activityRepo repositories.ActivityRepository,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		activityRepo:  activityRepo,
	}
}

// HandleListCandidates handles GET /candidates
func (h *CandidateHandler) HandleListCandidates(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	candidates, err := h.candidateRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}

	return c.JSON(fiber.Map{
		"candidates": candidates,
	})
}

// HandleGetCandidate handles GET /candidates/:id
func (h *CandidateHandler) HandleGetCandidate(c *fiber.Ctx) error {
	idParam := c.Params("id")
	candidateID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.candidateRepo.FindByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	activities, err := h.activityRepo.FindByCandidateID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load activities",
		})
	}

	return c.JSON(fiber.Map{
		"candidate":  candidate,
		"activities": activities,
	})
}
