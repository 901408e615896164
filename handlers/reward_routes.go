// handlers/reward_routes.go
package handlers

import (
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/models"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, redemptionSvc *services.RedemptionService) {
	app.Get("/rewards/catalog", func(c *fiber.Ctx) error {
		return utils.JSONSuccess(c, "Reward catalog.", services.Catalog())
	})

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/rewards/redeem", func(c *fiber.Ctx) error {
		var req struct {
			RewardType     models.RewardType `json:"reward_type"`
			IdempotencyKey string            `json:"idempotency_key"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		key := c.Get("Idempotency-Key")
		if key == "" {
			key = req.IdempotencyKey
		}

		res, err := redemptionSvc.Redeem(middleware.MemberID(c), req.RewardType, key)
		if err != nil {
			return fail(c, err)
		}
		msg := msgPrinter.Sprintf("Success! Code: %s. Used %d pts.", res.Record.IssuedCode, res.Record.PointsUsed)
		if res.Replayed {
			msg = msgPrinter.Sprintf("Already redeemed. Code: %s.", res.Record.IssuedCode)
		}
		return utils.JSONSuccess(c, msg, res)
	})

	secured.Get("/rewards/redemptions", func(c *fiber.Ctx) error {
		records, err := redemptionSvc.History(middleware.MemberID(c), c.QueryInt("limit", 20))
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Redemption history.", records)
	})
}
