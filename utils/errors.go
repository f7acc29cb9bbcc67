// utils/errors.go — stable error codes for the JSON error envelope
package utils

import "github.com/gofiber/fiber/v2"

// Machine-readable failure kinds. Every business-rule violation is returned
// as {"error": <human message>, "code": <kind>} with the matching HTTP status.
const (
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeNotFound     = "not_found"
	CodeValidation   = "validation"
	CodeInternal     = "internal"
)

// Fail writes the typed failure envelope.
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "code": code})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, CodeForbidden, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, CodeConflict, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, CodeNotFound, message)
}

func Validation(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, CodeValidation, message)
}

func Internal(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, CodeInternal, message)
}
