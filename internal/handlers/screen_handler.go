package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"recruitdesk/screening-service/internal/models"
	"recruitdesk/screening-service/internal/services"
)

type ScreenHandler struct {
	orchestrator   services.Orchestrator
	committer      services.Committer
	storageService services.StorageService
	encoder        services.DocumentEncoder
	pdfParser      services.PDFParserService
	maxFileSize    int64
}

func NewScreenHandler(
	orchestrator services.Orchestrator,
	committer services.Committer,
	storageService services.StorageService,
	encoder services.DocumentEncoder,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *ScreenHandler {
	return &ScreenHandler{
		orchestrator:   orchestrator,
		committer:      committer,
		storageService: storageService,
		encoder:        encoder,
		pdfParser:      pdfParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleScreen handles POST /screen: one resume upload plus a context
// label, screened and committed inline.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	contextLabel := c.FormValue("context_label")
	source := parseSourceChannel(c.FormValue("source_channel"))

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume: %v", err),
		})
	}

	documentBase64, mediaType, err := h.encoder.EncodeFile(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read resume: %v", err),
		})
	}

	input := models.ScreeningInput{
		DocumentBase64: documentBase64,
		ContextLabel:   contextLabel,
		SourceChannel:  source,
		MediaType:      mediaType,
	}

	result, err := h.orchestrator.RunScreening(c.Context(), input)
	if err != nil {
		return screeningErrorResponse(c, err)
	}

	var resumeText string
	if mediaType == "application/pdf" {
		// Best effort; the screening result is already in hand.
		if text, err := h.pdfParser.ExtractText(filePath); err == nil {
			resumeText = text
		}
	}

	candidate, activity, err := h.committer.CommitScreening(c.Context(), result, source, resumeText)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("screening succeeded but commit failed: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.ScreenResponse{
		CandidateID: candidate.ID.String(),
		ActivityID:  activity.ID.String(),
		Result:      result,
	})
}

// screeningErrorResponse maps the pipeline error taxonomy onto HTTP
// statuses, keeping the raw cause visible for the operator.
func screeningErrorResponse(c *fiber.Ctx, err error) error {
	var configErr *services.ConfigurationError
	var upstreamErr *services.UpstreamError
	var parseErr *services.ParseError

	switch {
	case errors.Is(err, services.ErrEmptyContextLabel):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "context_label is required",
		})
	case errors.Is(err, services.ErrNoCriteriaAvailable):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"error": "no scoring criteria configured; screening refused",
		})
	case errors.As(err, &configErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": configErr.Error(),
		})
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": parseErr.Error(),
			"raw":   parseErr.Raw,
		})
	case errors.As(err, &upstreamErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": upstreamErr.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func parseSourceChannel(s string) models.SourceChannel {
	switch models.SourceChannel(s) {
	case models.SourceJobBoard, models.SourceReferral, models.SourceEmail, models.SourceChat, models.SourceManual:
		return models.SourceChannel(s)
	default:
		return models.SourceManual
	}
}
