// handlers/referral_routes.go
package handlers

import (
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupReferralRoutes(app *fiber.App, referralSvc *services.ReferralService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/referral/link", func(c *fiber.Ctx) error {
		link, err := referralSvc.Link(middleware.MemberID(c))
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Share this link to earn bonus points!", fiber.Map{
			"referral_link": link,
		})
	})

	// The acting member is the referee: a newly enrolled member submits the
	// code they registered with. The referrer is resolved server-side.
	secured.Post("/referral/track", func(c *fiber.Ctx) error {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		referrer, err := referralSvc.Track(middleware.MemberID(c), req.Code)
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Referral credited.", fiber.Map{
			"referrer_id":     referrer.ID,
			"referrer_points": referrer.TotalPoints,
		})
	})
}
