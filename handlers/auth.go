package handlers

import (
	"club-booking-system/middleware"
	"club-booking-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, authService *services.AuthService) {
	// 🔓 Public routes
	app.Post("/auth/register", authService.Register)
	app.Post("/auth/login", authService.Login)

	// 🔐 Secured routes
	secured := app.Group("/", middleware.AuthRequired(db))
	secured.Post("/auth/logout", authService.Logout)
	secured.Get("/auth/me", authService.Me)
	secured.Post("/auth/change-password", authService.ChangePassword)
}
