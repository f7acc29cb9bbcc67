package services

import (
	"log"
	"time"

	"club-booking-system/middleware"
	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MembershipService struct {
	DB *gorm.DB

	// Injected clock, see BookingService.
	Now func() time.Time
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{DB: db, Now: time.Now}
}

// Status returns the membership payload the UI polls every 30s. A lapsed paid
// tier is downgraded on access before the payload is built, so the member
// never sees a stale "active" state.
func (s *MembershipService) Status(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)
	now := s.Now()

	if _, err := s.DowngradeIfExpired(member, now); err != nil {
		log.Printf("Failed to downgrade expired membership for %s: %v", member.Username, err)
		return utils.Internal(c, "failed to refresh membership state")
	}

	showRenewal := models.IsWithinRenewalWindow(member.MembershipExpiredAt, now) &&
		member.PreviousType != nil

	return c.JSON(fiber.Map{
		"membership_type":           member.MembershipType,
		"membership_expiry":         member.MembershipExpiry,
		"membership_expired_at":     member.MembershipExpiredAt,
		"previous_type":             member.PreviousType,
		"balance_due":               member.BalanceDue,
		"free_week":                 member.FreeWeek,
		"is_active":                 models.IsMembershipActive(member.MembershipType, member.MembershipExpiry, now),
		"needs_payment":             member.NeedsPaymentForSession(now),
		"show_renewal_notification": showRenewal,
	})
}

// DowngradeIfExpired checks the member's paid tier and downgrades to WEEKLY
// when it has lapsed, recording when and from which tier. Idempotent: once
// downgraded the tier is WEEKLY, which never expires. Mutates the passed
// member to match the stored state.
func (s *MembershipService) DowngradeIfExpired(member *models.Member, now time.Time) (bool, error) {
	if !models.HasMembershipExpired(member.MembershipType, member.MembershipExpiry, now) {
		return false, nil
	}

	previousType := member.MembershipType
	err := s.DB.Model(&models.Member{}).Where("id = ?", member.ID).Updates(map[string]interface{}{
		"membership_type":       models.MembershipWeekly,
		"membership_expiry":     nil,
		"membership_expired_at": now,
		"previous_type":         previousType,
	}).Error
	if err != nil {
		return false, err
	}

	member.MembershipType = models.MembershipWeekly
	member.MembershipExpiry = nil
	member.MembershipExpiredAt = &now
	member.PreviousType = &previousType

	log.Printf("⬇️  Membership lapsed for %s (%s → WEEKLY)", member.Username, previousType)
	return true, nil
}
