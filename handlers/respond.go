package handlers

import (
	"errors"
	"log"

	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// msgPrinter formats point totals with digit grouping for user-visible
// messages ("You earned 1,250 points!").
var msgPrinter = message.NewPrinter(language.English)

// statusFor maps engine errors onto HTTP statuses. Everything unrecognized is
// a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrQuotaExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrInsufficientPoints):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrDuplicateReferral):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidReferral):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// fail writes the failure envelope for an engine error. Internal errors are
// logged and masked.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("💥 %s %s: %v", c.Method(), c.Path(), err)
		msg = "something went wrong, please try again later"
	}
	return utils.JSONError(c, status, msg)
}
