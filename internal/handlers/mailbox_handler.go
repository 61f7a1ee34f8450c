package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitdesk/screening-service/internal/mail"
	"recruitdesk/screening-service/internal/models"
)

type MailboxHandler struct {
	poller *mail.Poller
	tokens *mail.TokenManager
	graph  mail.GraphClient
}

func NewMailboxHandler(poller *mail.Poller, tokens *mail.TokenManager, graph mail.GraphClient) *MailboxHandler {
	return &MailboxHandler{
		poller: poller,
		tokens: tokens,
		graph:  graph,
	}
}

// HandleStatus handles GET /mailbox/status
func (h *MailboxHandler) HandleStatus(c *fiber.Ctx) error {
	resp := models.MailboxStatusResponse{
		Connected:      h.tokens.Connected(),
		AccountEmail:   h.tokens.AccountEmail(),
		Monitoring:     h.poller.MonitoringEnabled(),
		Polling:        h.poller.IsPolling(),
		LastCheckedAt:  h.poller.LastChecked(),
		ProcessedCount: h.poller.ProcessedCount(),
		Recent:         h.poller.Recent(),
		Errors:         h.poller.Errors(),
	}

	return c.JSON(resp)
}

// HandleConnect handles GET /mailbox/connect: returns the authorization URL
// the operator visits to grant mailbox access.
func (h *MailboxHandler) HandleConnect(c *fiber.Ctx) error {
	authURL, err := h.tokens.AuthURL(uuid.New().String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"auth_url": authURL,
	})
}

// HandleCallback handles GET /mailbox/callback: exchanges the authorization
// code and records the connected account.
func (h *MailboxHandler) HandleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code query parameter is required",
		})
	}

	if err := h.tokens.Exchange(c.Context(), code); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Best effort: which mailbox did we just connect?
	if token, err := h.tokens.GetValidAccessToken(c.Context()); err == nil && token != "" {
		if email, err := h.graph.GetAccountEmail(c.Context(), token); err == nil {
			if err := h.tokens.SetAccountEmail(email); err != nil {
				log.Printf("⚠️  Failed to record account email: %v\n", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message":       "Mailbox connected",
		"account_email": h.tokens.AccountEmail(),
	})
}

// HandleDisconnect handles POST /mailbox/disconnect
func (h *MailboxHandler) HandleDisconnect(c *fiber.Ctx) error {
	if err := h.tokens.Disconnect(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Mailbox disconnected",
	})
}

// HandleMonitoring handles POST /mailbox/monitoring
func (h *MailboxHandler) HandleMonitoring(c *fiber.Ctx) error {
	var req models.MonitoringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.poller.SetMonitoring(req.Enabled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"monitoring": req.Enabled,
	})
}

// HandlePoll handles POST /mailbox/poll: a manual trigger. A trigger while
// a cycle is already running is accepted and dropped.
func (h *MailboxHandler) HandlePoll(c *fiber.Ctx) error {
	if err := h.poller.Poll(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Poll completed",
	})
}
