package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/service"
)

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/")
	g.Get("tiers", func(c *fiber.Ctx) error {
		items, err := svcs.Tiers.ListTiers(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})
	g.Post("analyze", func(c *fiber.Ctx) error {
		var req service.Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		a, err := svcs.Analyses.Analyze(c.UserContext(), req)
		switch {
		case errors.Is(err, service.ErrUnknownTier):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			log.Error().Err(err).Msg("analyze failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		case a == nil:
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(a)
	})
	g.Get("metrics", adaptor.HTTPHandler(metrics.Handler()))
}
