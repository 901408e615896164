// handlers/game_routes.go
package handlers

import (
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameSvc *services.GameService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/games/attempts", func(c *fiber.Ctx) error {
		left, err := gameSvc.AttemptsLeft(middleware.MemberID(c))
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Attempts loaded.", fiber.Map{"attempts_left": left})
	})

	secured.Post("/games/reaction/complete", func(c *fiber.Ctx) error {
		var req services.ReactionOutcome
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := gameSvc.CompleteReaction(middleware.MemberID(c), req)
		if err != nil {
			return fail(c, err)
		}
		msg := msgPrinter.Sprintf("You earned %d points!", res.PointsAwarded)
		if res.PointsAwarded == 0 {
			msg = "Too slow this time — 0 points."
		}
		return utils.JSONSuccess(c, msg, res)
	})

	secured.Post("/games/puzzle/complete", func(c *fiber.Ctx) error {
		var req struct {
			Outcome services.PuzzleOutcome `json:"outcome"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := gameSvc.CompletePuzzle(middleware.MemberID(c), req.Outcome)
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c,
			msgPrinter.Sprintf("Daily reward granted: %d points!", res.PointsAwarded),
			res)
	})
}
