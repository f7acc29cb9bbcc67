// middleware/auth.go — session-token authentication
package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRequired resolves the Bearer session token to a member and attaches it
// as c.Locals("member"). Expired sessions are rejected (and deleted lazily).
func AuthRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return utils.Unauthorized(c, "missing session token")
		}

		var session models.AuthSession
		err := db.Preload("Member").First(&session, "token = ?", token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Unauthorized(c, "invalid session token")
			}
			log.Printf("DB error resolving session: %v", err)
			return utils.Internal(c, "failed to resolve session")
		}

		if time.Now().After(session.ExpiresAt) {
			db.Delete(&session)
			return utils.Unauthorized(c, "session expired")
		}

		member := session.Member
		c.Locals("member", &member)
		return c.Next()
	}
}

// AdminRequired gates admin-only routes. Must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		member := MemberFromCtx(c)
		if member == nil {
			return utils.Unauthorized(c, "missing session token")
		}
		if !member.IsAdmin {
			log.Printf("🚫 [ADMIN] %s attempted admin route %s", member.Username, c.Path())
			return utils.Forbidden(c, "administrator rights required")
		}
		return c.Next()
	}
}

// MemberFromCtx returns the authenticated member, or nil outside auth routes.
func MemberFromCtx(c *fiber.Ctx) *models.Member {
	member, _ := c.Locals("member").(*models.Member)
	return member
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		// no "Bearer " prefix — accept the raw value
		token = authHeader
	}
	return strings.TrimSpace(token)
}
