package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the uniform envelope every endpoint returns: a success flag,
// a human-readable message, and the data payload (updated profile or error
// details).
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSONSuccess writes a 200 envelope.
func JSONSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(APIResponse{Success: true, Message: message, Data: data})
}

// JSONCreated writes a 201 envelope.
func JSONCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Message: message, Data: data})
}

// JSONError writes a failure envelope with the given status.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{Success: false, Message: message})
}
