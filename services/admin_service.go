package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB

	// Injected clock, see BookingService.
	Now func() time.Time
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db, Now: time.Now}
}

// ListMembers returns all members for the admin users page.
func (s *AdminService) ListMembers(c *fiber.Ctx) error {
	var members []models.Member
	err := utils.WithReadRetry(func() error {
		return s.DB.Order("username ASC").Find(&members).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch members")
	}
	return c.JSON(members)
}

// MarkMemberPaid records a payment in the ledger and decrements the member's
// balance, floored at zero. Ledger append and balance mutation happen in one
// transaction so they cannot drift on a failed write.
func (s *AdminService) MarkMemberPaid(c *fiber.Ctx) error {
	memberID := c.Params("id")

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if input.Amount <= 0 {
		return utils.Validation(c, "amount must be positive")
	}

	var member models.Member
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
			return err
		}

		record := &models.PaymentRecord{
			ID:       uuid.NewString(),
			MemberID: memberID,
			Amount:   input.Amount,
			Type:     models.PaymentTypePayment,
			Notes:    fmt.Sprintf("Admin marked %s as paid", utils.FormatGBP(input.Amount)),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		newBalance := member.BalanceDue - input.Amount
		if newBalance < 0 {
			newBalance = 0
		}
		member.BalanceDue = newBalance
		return tx.Model(&models.Member{}).Where("id = ?", memberID).
			Update("balance_due", newBalance).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "member not found")
		}
		return utils.Internal(c, "failed to record payment")
	}

	log.Printf("💰 Payment of %s recorded for member %s", utils.FormatGBP(input.Amount), memberID)
	return c.JSON(member)
}

// SetFreeWeek toggles the flag that waives the member's next session payment.
func (s *AdminService) SetFreeWeek(c *fiber.Ctx) error {
	var input struct {
		FreeWeek bool `json:"free_week"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	return s.updateMemberField(c, "free_week", input.FreeWeek)
}

// SetAdmin grants or revokes administrator rights.
func (s *AdminService) SetAdmin(c *fiber.Ctx) error {
	var input struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	return s.updateMemberField(c, "is_admin", input.IsAdmin)
}

// SetMembershipTier changes a member's tier and recomputes the expiry:
// +1 month for MONTHLY, +1 year for YEARLY, none for WEEKLY. An admin-set
// tier also clears any stale downgrade bookkeeping.
func (s *AdminService) SetMembershipTier(c *fiber.Ctx) error {
	memberID := c.Params("id")

	var input struct {
		MembershipType string `json:"membership_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if !models.IsValidMembershipType(input.MembershipType) {
		return utils.Validation(c, "membership_type must be WEEKLY, MONTHLY or YEARLY")
	}

	var member models.Member
	if err := s.DB.First(&member, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "member not found")
		}
		return utils.Internal(c, "DB error")
	}

	expiry := models.CalculateExpiry(input.MembershipType, s.Now())
	err := s.DB.Model(&member).Updates(map[string]interface{}{
		"membership_type":       input.MembershipType,
		"membership_expiry":     expiry,
		"membership_expired_at": nil,
		"previous_type":         nil,
	}).Error
	if err != nil {
		return utils.Internal(c, "failed to update membership")
	}

	member.MembershipType = input.MembershipType
	member.MembershipExpiry = expiry
	member.MembershipExpiredAt = nil
	member.PreviousType = nil
	return c.JSON(member)
}

// ResetPassword sets a new password for a member.
func (s *AdminService) ResetPassword(c *fiber.Ctx) error {
	memberID := c.Params("id")

	var input struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if len(input.NewPassword) < 6 {
		return utils.Validation(c, "password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.Internal(c, "failed to hash password")
	}

	res := s.DB.Model(&models.Member{}).Where("id = ?", memberID).
		Update("password", string(hashed))
	if res.Error != nil {
		return utils.Internal(c, "failed to reset password")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "member not found")
	}

	return c.JSON(fiber.Map{"message": "password reset successfully"})
}

// PaymentLogs returns the ledger, newest first.
func (s *AdminService) PaymentLogs(c *fiber.Ctx) error {
	var records []models.PaymentRecord
	err := utils.WithReadRetry(func() error {
		return s.DB.Preload("Member").Order("created_at DESC").Limit(500).Find(&records).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch payment logs")
	}
	return c.JSON(records)
}

func (s *AdminService) updateMemberField(c *fiber.Ctx, column string, value interface{}) error {
	memberID := c.Params("id")

	res := s.DB.Model(&models.Member{}).Where("id = ?", memberID).Update(column, value)
	if res.Error != nil {
		return utils.Internal(c, "failed to update member")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "member not found")
	}

	var member models.Member
	if err := s.DB.First(&member, "id = ?", memberID).Error; err != nil {
		return utils.Internal(c, "DB error")
	}
	return c.JSON(member)
}
