// handlers/merchant_routes.go
package handlers

import (
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/models"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupMerchantRoutes(app *fiber.App, loyaltySvc *services.LoyaltyService, analyticsSvc *services.AnalyticsService) {
	merchant := app.Group("/merchant",
		middleware.UserContextMiddleware(),
		middleware.RequireRole(models.RoleMerchant),
	)

	merchant.Get("/analytics/summary", func(c *fiber.Ctx) error {
		summary, err := analyticsSvc.Summary()
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Program summary.", summary)
	})

	merchant.Get("/settings", func(c *fiber.Ctx) error {
		settings, err := loyaltySvc.Settings()
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Program settings.", settings)
	})

	merchant.Post("/settings/daily-reward", func(c *fiber.Ctx) error {
		var req struct {
			Points int64 `json:"points"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		settings, err := loyaltySvc.SetDailyPuzzlePoints(req.Points)
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c,
			msgPrinter.Sprintf("Daily puzzle reward set to %d points.", settings.DailyPuzzlePoints),
			settings)
	})

	merchant.Get("/members", func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		size := c.QueryInt("size", 20)
		members, total, err := loyaltySvc.ListMembers(page, size)
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Members.", fiber.Map{
			"members": members,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	})
}
