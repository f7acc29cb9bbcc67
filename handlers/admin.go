package handlers

import (
	"club-booking-system/middleware"
	"club-booking-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB,
	adminService *services.AdminService,
	bookingService *services.BookingService,
	gameService *services.GameService,
	settingsService *services.SettingsService,
	statsService *services.StatsService) {

	// 🔒 Admin-only routes
	admin := app.Group("/admin", middleware.AuthRequired(db), middleware.AdminRequired())

	// Member management
	admin.Get("/users", adminService.ListMembers)
	admin.Post("/users/:id/mark-paid", adminService.MarkMemberPaid)
	admin.Patch("/users/:id/free-week", adminService.SetFreeWeek)
	admin.Patch("/users/:id/promote", adminService.SetAdmin)
	admin.Patch("/users/:id/membership", adminService.SetMembershipTier)
	admin.Post("/users/:id/reset-password", adminService.ResetPassword)

	// Booking corrections & payment reconciliation
	admin.Get("/bookings", bookingService.ListAll)
	admin.Delete("/bookings/:id/players/:member_id", bookingService.RemovePlayer)
	admin.Patch("/bookings/:id/players/:member_id/paid", bookingService.MarkPaid)
	admin.Get("/payment-logs", adminService.PaymentLogs)

	// Game catalogue
	admin.Get("/games", gameService.ListAllGames)
	admin.Post("/games", gameService.CreateGame)
	admin.Put("/games/:id", gameService.UpdateGame)
	admin.Delete("/games/:id", gameService.DeleteGame)

	// Club settings & stats
	admin.Put("/settings", settingsService.Update)
	admin.Get("/stats", statsService.Overview)
}
