package services_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"club-booking-system/handlers"
	"club-booking-system/models"
	"club-booking-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// All service tests run against the real routes on an in-memory sqlite DB,
// with the clock pinned to a Monday at noon (2026-08-31). Tests shift
// env.now to exercise the freeze and expiry rules.
type testEnv struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
	now time.Time

	booking *services.BookingService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection so every statement sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Member{},
		&models.AuthSession{},
		&models.Game{},
		&models.Booking{},
		&models.ClubSettings{},
		&models.PaymentRecord{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &testEnv{
		t:   t,
		db:  db,
		now: time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC), // a Monday, midday
	}
	clock := func() time.Time { return env.now }

	authService := services.NewAuthService(db)
	bookingService := services.NewBookingService(db)
	bookingService.Now = clock
	membershipService := services.NewMembershipService(db)
	membershipService.Now = clock
	adminService := services.NewAdminService(db)
	adminService.Now = clock
	statsService := services.NewStatsService(db)
	statsService.Now = clock
	gameService := services.NewGameService(db)
	settingsService := services.NewSettingsService(db)

	app := fiber.New()
	handlers.SetupAuthRoutes(app, db, authService)
	handlers.SetupBookingRoutes(app, db, bookingService, membershipService, gameService, settingsService)
	handlers.SetupAdminRoutes(app, db, adminService, bookingService, gameService, settingsService, statsService)

	env.app = app
	env.booking = bookingService
	return env
}

// createMember inserts a member plus a valid session and returns both.
func (e *testEnv) createMember(username string, isAdmin bool) (*models.Member, string) {
	e.t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		e.t.Fatalf("failed to hash password: %v", err)
	}
	member := &models.Member{
		ID:             uuid.NewString(),
		Username:       username,
		Password:       string(hashed),
		RealName:       username,
		MembershipType: models.MembershipWeekly,
		IsAdmin:        isAdmin,
	}
	if err := e.db.Create(member).Error; err != nil {
		e.t.Fatalf("failed to create member %s: %v", username, err)
	}

	session := &models.AuthSession{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		MemberID:  member.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := e.db.Create(session).Error; err != nil {
		e.t.Fatalf("failed to create session for %s: %v", username, err)
	}
	return member, session.Token
}

func (e *testEnv) createGame(name string) *models.Game {
	e.t.Helper()
	game := &models.Game{ID: uuid.NewString(), Name: name, Slug: name, ShowOnFrontpage: true}
	if err := e.db.Create(game).Error; err != nil {
		e.t.Fatalf("failed to create game %s: %v", name, err)
	}
	return game
}

// request performs an authenticated JSON request against the test app and
// decodes the response body into a generic map (nil for array responses).
func (e *testEnv) request(method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		e.t.Fatalf("%s %s failed: %v", method, path, err)
	}

	data, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &parsed)
	}
	return resp, parsed
}

func (e *testEnv) wantStatus(resp *http.Response, want int) {
	e.t.Helper()
	if resp.StatusCode != want {
		e.t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}

func (e *testEnv) wantCode(body map[string]interface{}, want string) {
	e.t.Helper()
	if body["code"] != want {
		e.t.Fatalf("error code = %v, want %q", body["code"], want)
	}
}
