// handlers/member_routes.go
package handlers

import (
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupMemberRoutes(app *fiber.App, loyaltySvc *services.LoyaltyService, referralSvc *services.ReferralService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Post("/members/enroll", func(c *fiber.Ctx) error {
		var req services.EnrollInput
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}

		member, err := loyaltySvc.Enroll(req)
		if err != nil {
			return fail(c, err)
		}

		// Attribute the referral after the profile exists. A bad code should
		// not undo the enrollment, so it only shapes the message.
		msg := "Welcome aboard!"
		if req.ReferralCode != "" {
			if _, err := referralSvc.Track(member.ID, req.ReferralCode); err != nil {
				msg = "Enrolled, but the referral code could not be applied."
			} else {
				msg = "Welcome aboard! Your friend just earned a referral bonus."
			}
			// Re-read so the response carries ReferredBy.
			if fresh, err := loyaltySvc.GetProfile(member.ID); err == nil {
				member = fresh
			}
		}
		return utils.JSONCreated(c, msg, member)
	})

	app.Post("/members/login", func(c *fiber.Ctx) error {
		var req struct {
			Identifier string `json:"identifier"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		member, err := loyaltySvc.Login(req.Identifier)
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Profile loaded!", member)
	})

	// 🔐 Secured routes — identity comes from the gateway context only
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/members/me", func(c *fiber.Ctx) error {
		member, err := loyaltySvc.GetProfile(middleware.MemberID(c))
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c, "Profile loaded!", member)
	})

	secured.Get("/members/me/balance", func(c *fiber.Ctx) error {
		member, err := loyaltySvc.GetProfile(middleware.MemberID(c))
		if err != nil {
			return fail(c, err)
		}
		return utils.JSONSuccess(c,
			msgPrinter.Sprintf("You have %d points available.", member.TotalPoints),
			fiber.Map{
				"total_points": member.TotalPoints,
				"current_tier": member.CurrentTier,
			})
	})

	secured.Post("/events/purchase", func(c *fiber.Ctx) error {
		var req struct {
			OrderRef string  `json:"order_ref"`
			Amount   float64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := loyaltySvc.RecordPurchase(middleware.MemberID(c), req.OrderRef, req.Amount)
		if err != nil {
			return fail(c, err)
		}
		msg := msgPrinter.Sprintf("Purchase recorded: %d points earned.", res.PointsEarned)
		if res.Replayed {
			msg = "Purchase already recorded."
		}
		return utils.JSONSuccess(c, msg, res)
	})
}
