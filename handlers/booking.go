package handlers

import (
	"club-booking-system/middleware"
	"club-booking-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBookingRoutes(app *fiber.App, db *gorm.DB,
	bookingService *services.BookingService,
	membershipService *services.MembershipService,
	gameService *services.GameService,
	settingsService *services.SettingsService) {

	secured := app.Group("/", middleware.AuthRequired(db))

	// Booking grid — polled by clients every 10s
	secured.Get("/bookings/dashboard-data", bookingService.DashboardData)
	secured.Post("/bookings", bookingService.Create)
	secured.Post("/bookings/:id/join", bookingService.Join)
	secured.Post("/bookings/:id/leave", bookingService.Leave)

	// Supporting reads for the booking dialog
	secured.Get("/games/list", gameService.ListGames)
	secured.Get("/settings", settingsService.Get)

	// Membership card — polled every 30s
	secured.Get("/membership/status", membershipService.Status)
}
