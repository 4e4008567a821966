package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nvdow/volunteerfinder/internal/api/dto"
	"github.com/nvdow/volunteerfinder/internal/service"
)

// VolunteersHandler exposes the search and filter-option endpoints.
type VolunteersHandler struct {
	finder *service.FinderService
}

// NewVolunteersHandler constructs handler.
func NewVolunteersHandler(finder *service.FinderService) *VolunteersHandler {
	return &VolunteersHandler{finder: finder}
}

// Find handles GET /api/volunteers.
func (h *VolunteersHandler) Find(c *fiber.Ctx) error {
	filter := service.Filter{
		CRG:          c.Query("crg"),
		Timezone:     c.Query("timezone"),
		BusinessUnit: c.Query("business_unit"),
	}

	result, err := h.finder.Find(c.UserContext(), filter)
	if err != nil {
		return err
	}

	cards := make([]dto.VolunteerCard, 0, len(result.Volunteers))
	for _, v := range result.Volunteers {
		cards = append(cards, dto.VolunteerCard{
			Name:          v.Name,
			CRG:           v.CRG,
			Timezone:      v.Timezone,
			BusinessUnit:  v.BusinessUnit,
			Email:         v.Email,
			TimesSelected: h.finder.Count(v.Name),
			InteractionID: uuid.New().String(),
		})
	}

	return c.JSON(fiber.Map{
		"data": dto.FindResponse{
			Volunteers:    cards,
			Total:         result.Total,
			ResetOccurred: result.ResetOccurred,
		},
	})
}

// Options handles GET /api/volunteers/options.
func (h *VolunteersHandler) Options(c *fiber.Ctx) error {
	options, err := h.finder.Options(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.OptionsResponse{
			CRG:           options.CRG,
			Timezones:     options.Timezones,
			BusinessUnits: options.BusinessUnits,
		},
	})
}

// Schedule handles POST /api/volunteers/schedule.
func (h *VolunteersHandler) Schedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	result, err := h.finder.Schedule(c.UserContext(), req.Name, req.InteractionID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ScheduleResponse{
			Name:          result.Name,
			TimesSelected: result.TimesSelected,
			Mailto:        result.MailtoLink,
			Applied:       result.Applied,
			ResetOccurred: result.ResetOccurred,
		},
	})
}
