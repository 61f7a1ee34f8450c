package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"recruitdesk/screening-service/internal/services"
)

type RoleHandler struct {
	criteria  services.CriteriaService
	roleIndex services.RoleIndexService
}

func NewRoleHandler(criteria services.CriteriaService, roleIndex services.RoleIndexService) *RoleHandler {
	return &RoleHandler{
		criteria:  criteria,
		roleIndex: roleIndex,
	}
}

// HandleListRoles handles GET /roles: the live criteria set, straight from
// the sheet.
func (h *RoleHandler) HandleListRoles(c *fiber.Ctx) error {
	criteria, err := h.criteria.FetchCriteria(c.Context())
	if err != nil {
		return screeningErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"roles": criteria,
	})
}

// HandleSuggestRoles handles GET /roles/suggest?q=
func (h *RoleHandler) HandleSuggestRoles(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q query parameter is required",
		})
	}

	limit := 3
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 10 {
			limit = v
		}
	}

	suggestions, err := h.roleIndex.SuggestRoles(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"suggestions": suggestions,
	})
}
