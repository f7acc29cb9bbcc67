package services

import (
	"errors"
	"log"
	"time"

	"club-booking-system/middleware"
	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking failure sentinels, mapped to the error envelope at the handler
// boundary.
var (
	errSessionFrozen  = errors.New("bookings are frozen until the session ends")
	errAlreadyBooked  = errors.New("you already have a booking for this session")
	errTableTaken     = errors.New("table is already booked for this session")
	errTableFull      = errors.New("table is full")
	errNotInBooking   = errors.New("you are not a player in this booking")
	errBookingMissing = errors.New("booking not found")
	errGameMissing    = errors.New("game not found")
)

type BookingService struct {
	DB *gorm.DB

	// Now is injected so the Monday-resolution rules stay deterministic in
	// tests. Defaults to time.Now.
	Now func() time.Time
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, Now: time.Now}
}

// DashboardData returns everything the booking grid needs in one response:
// the resolved session date, the freeze flag, all ACTIVE bookings for that
// date and the caller's own booking (if any). Clients poll this every 10s.
func (s *BookingService) DashboardData(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)
	now := s.Now()
	sessionDate := utils.ResolveSessionDate(now)

	var bookings []models.Booking
	err := utils.WithReadRetry(func() error {
		return s.DB.
			Preload("Game").Preload("Creator").Preload("Players").Preload("PaidPlayers").
			Where("date = ? AND status = ?", sessionDate, models.BookingStatusActive).
			Order("table_number ASC").
			Find(&bookings).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch bookings")
	}

	var userBooking *models.Booking
	for i := range bookings {
		if bookings[i].HasPlayer(member.ID) {
			userBooking = &bookings[i]
			break
		}
	}

	return c.JSON(fiber.Map{
		"session_date": sessionDate,
		"frozen":       utils.IsFrozen(now),
		"bookings":     bookings,
		"user_booking": userBooking,
		"user":         member,
	})
}

// Create books a table for the resolved session. The creator implicitly
// occupies the first seat.
func (s *BookingService) Create(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)

	var input struct {
		TableNumber   int    `json:"table_number"`
		GameID        string `json:"game_id"`
		PlayersNeeded int    `json:"players_needed"`
		Notes         string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if input.GameID == "" {
		return utils.Validation(c, "game_id is required")
	}
	if input.PlayersNeeded < 1 || input.PlayersNeeded > 10 {
		return utils.Validation(c, "players_needed must be between 1 and 10")
	}

	var settings models.ClubSettings
	if err := s.DB.First(&settings, 1).Error; err != nil {
		settings.TableCount = models.DefaultTableCount
	}
	if input.TableNumber < 1 || input.TableNumber > settings.TableCount {
		return utils.Validation(c, "table_number is out of range")
	}

	now := s.Now()
	if utils.IsFrozen(now) && !member.IsAdmin {
		return utils.Conflict(c, errSessionFrozen.Error())
	}
	sessionDate := utils.ResolveSessionDate(now)

	booking := &models.Booking{
		ID:            uuid.NewString(),
		Date:          sessionDate,
		TableNumber:   input.TableNumber,
		GameID:        input.GameID,
		CreatedByID:   member.ID,
		PlayersNeeded: input.PlayersNeeded,
		PlayersCount:  1,
		Notes:         input.Notes,
		Status:        models.BookingStatusActive,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, "id = ?", input.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errGameMissing
			}
			return err
		}

		if has, err := s.memberHasBooking(tx, member.ID, sessionDate); err != nil {
			return err
		} else if has {
			return errAlreadyBooked
		}

		var taken int64
		if err := tx.Model(&models.Booking{}).
			Where("date = ? AND table_number = ?", sessionDate, input.TableNumber).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errTableTaken
		}

		// The composite unique index on (date, table_number) backs this up if
		// two creates race past the count.
		return tx.Create(booking).Error
	})
	if err != nil {
		return s.bookingError(c, err)
	}

	s.DB.Preload("Game").Preload("Creator").First(booking, "id = ?", booking.ID)
	log.Printf("✅ Table %d booked by %s for %s", booking.TableNumber, member.Username, sessionDate.Format("2006-01-02"))
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Join adds the caller to a booking's player list. Capacity is enforced as a
// single conditional write so two members racing for the last seat cannot
// both get in.
func (s *BookingService) Join(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)
	bookingID := c.Params("id")

	now := s.Now()
	if utils.IsFrozen(now) && !member.IsAdmin {
		return utils.Conflict(c, errSessionFrozen.Error())
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Players").First(&booking, "id = ? AND status = ?", bookingID, models.BookingStatusActive).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookingMissing
			}
			return err
		}

		if has, err := s.memberHasBooking(tx, member.ID, booking.Date); err != nil {
			return err
		} else if has {
			return errAlreadyBooked
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND players_count < players_needed", bookingID).
			Update("players_count", gorm.Expr("players_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTableFull
		}

		return tx.Model(&booking).Association("Players").Append(&models.Member{ID: member.ID})
	})
	if err != nil {
		return s.bookingError(c, err)
	}

	log.Printf("✅ %s joined booking %s", member.Username, bookingID)
	return c.JSON(fiber.Map{"message": "joined booking", "booking_id": bookingID})
}

// Leave removes the caller from a booking. A joined player just frees their
// seat; the creator leaving cancels the whole booking (the remaining players
// are released to book elsewhere).
func (s *BookingService) Leave(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)
	bookingID := c.Params("id")

	now := s.Now()
	if utils.IsFrozen(now) && !member.IsAdmin {
		return utils.Conflict(c, errSessionFrozen.Error())
	}

	cancelled := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Players").First(&booking, "id = ? AND status = ?", bookingID, models.BookingStatusActive).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookingMissing
			}
			return err
		}

		if booking.CreatedByID == member.ID {
			cancelled = true
			return s.cancelBooking(tx, &booking)
		}
		if !booking.HasPlayer(member.ID) {
			return errNotInBooking
		}
		return s.removeJoinedPlayer(tx, &booking, member.ID)
	})
	if err != nil {
		return s.bookingError(c, err)
	}

	if cancelled {
		log.Printf("🗑️  Booking %s cancelled by creator %s", bookingID, member.Username)
		return c.JSON(fiber.Map{"message": "booking cancelled", "booking_id": bookingID})
	}
	return c.JSON(fiber.Map{"message": "left booking", "booking_id": bookingID})
}

// RemovePlayer is an admin correction tool: forcibly removes any player from
// a booking. Removing the creator cancels the booking, same policy as the
// creator leaving. No freeze or conflict checks apply.
func (s *BookingService) RemovePlayer(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	memberID := c.Params("member_id")

	cancelled := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Players").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookingMissing
			}
			return err
		}

		if booking.CreatedByID == memberID {
			cancelled = true
			return s.cancelBooking(tx, &booking)
		}
		if !booking.HasPlayer(memberID) {
			return errNotInBooking
		}
		return s.removeJoinedPlayer(tx, &booking, memberID)
	})
	if err != nil {
		return s.bookingError(c, err)
	}

	if cancelled {
		return c.JSON(fiber.Map{"message": "creator removed, booking cancelled", "booking_id": bookingID})
	}
	return c.JSON(fiber.Map{"message": "player removed", "booking_id": bookingID})
}

// MarkPaid toggles a member in the booking's paid-set. Purely a per-booking
// reconciliation flag, independent of the member's overall balance.
func (s *BookingService) MarkPaid(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	memberID := c.Params("member_id")

	var input struct {
		IsPaid bool `json:"is_paid"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Players").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookingMissing
			}
			return err
		}
		if !booking.HasPlayer(memberID) {
			return errNotInBooking
		}

		assoc := tx.Model(&booking).Association("PaidPlayers")
		if input.IsPaid {
			return assoc.Append(&models.Member{ID: memberID})
		}
		return assoc.Delete(&models.Member{ID: memberID})
	})
	if err != nil {
		return s.bookingError(c, err)
	}

	return c.JSON(fiber.Map{"message": "paid status updated", "booking_id": bookingID, "is_paid": input.IsPaid})
}

// ListAll returns every booking, newest session first. Admin view.
func (s *BookingService) ListAll(c *fiber.Ctx) error {
	var bookings []models.Booking
	err := utils.WithReadRetry(func() error {
		return s.DB.
			Preload("Game").Preload("Creator").Preload("Players").Preload("PaidPlayers").
			Order("date DESC, table_number ASC").
			Find(&bookings).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch bookings")
	}
	return c.JSON(bookings)
}

// memberHasBooking reports whether the member is creator or joined player of
// any ACTIVE booking on the given session date.
func (s *BookingService) memberHasBooking(tx *gorm.DB, memberID string, date time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Joins("LEFT JOIN booking_players bp ON bp.booking_id = bookings.id AND bp.member_id = ?", memberID).
		Where("bookings.date = ? AND bookings.status = ?", date, models.BookingStatusActive).
		Where("bookings.created_by_id = ? OR bp.member_id IS NOT NULL", memberID).
		Count(&count).Error
	return count > 0, err
}

func (s *BookingService) removeJoinedPlayer(tx *gorm.DB, booking *models.Booking, memberID string) error {
	target := &models.Member{ID: memberID}
	if err := tx.Model(booking).Association("Players").Delete(target); err != nil {
		return err
	}
	if err := tx.Model(booking).Association("PaidPlayers").Delete(target); err != nil {
		return err
	}
	return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("players_count", gorm.Expr("players_count - 1")).Error
}

func (s *BookingService) cancelBooking(tx *gorm.DB, booking *models.Booking) error {
	if err := tx.Model(booking).Association("Players").Clear(); err != nil {
		return err
	}
	if err := tx.Model(booking).Association("PaidPlayers").Clear(); err != nil {
		return err
	}
	return tx.Delete(booking).Error
}

// bookingError maps the booking sentinels onto the error envelope.
func (s *BookingService) bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBookingMissing), errors.Is(err, errGameMissing):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, errAlreadyBooked), errors.Is(err, errTableTaken),
		errors.Is(err, errTableFull), errors.Is(err, errSessionFrozen):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, errNotInBooking):
		return utils.Forbidden(c, err.Error())
	default:
		log.Printf("Booking operation failed: %v", err)
		return utils.Internal(c, "booking operation failed")
	}
}
