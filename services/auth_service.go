package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"club-booking-system/middleware"
	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Register creates a new member account. New members start on the WEEKLY
// tier with a zero balance.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var input struct {
		Username      string `json:"username"`
		Password      string `json:"password"`
		RealName      string `json:"real_name"`
		DateOfBirth   string `json:"date_of_birth"` // YYYY-MM-DD
		DiscordHandle string `json:"discord_handle"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return utils.Validation(c, "username is required")
	}
	if len(input.Password) < 6 {
		return utils.Validation(c, "password must be at least 6 characters")
	}

	var dob *time.Time
	if input.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return utils.Validation(c, "invalid date_of_birth — use YYYY-MM-DD")
		}
		dob = &parsed
	}

	var existing models.Member
	err := s.DB.First(&existing, "username = ?", input.Username).Error
	if err == nil {
		return utils.Conflict(c, "username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Internal(c, "DB error")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Internal(c, "failed to hash password")
	}

	member := &models.Member{
		ID:             uuid.NewString(),
		Username:       input.Username,
		Password:       string(hashed),
		RealName:       input.RealName,
		DateOfBirth:    dob,
		DiscordHandle:  input.DiscordHandle,
		MembershipType: models.MembershipWeekly,
	}
	if err := s.DB.Create(member).Error; err != nil {
		return utils.Internal(c, "failed to create member")
	}

	log.Printf("✅ New member registered: %s", member.Username)
	return c.Status(fiber.StatusCreated).JSON(member)
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}

	var member models.Member
	err := s.DB.First(&member, "username = ?", strings.TrimSpace(input.Username)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "invalid username or password")
		}
		return utils.Internal(c, "DB error")
	}

	if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(input.Password)) != nil {
		return utils.Unauthorized(c, "invalid username or password")
	}

	session := &models.AuthSession{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		MemberID:  member.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.DB.Create(session).Error; err != nil {
		return utils.Internal(c, "failed to create session")
	}

	return c.JSON(fiber.Map{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"member":     member,
	})
}

// Logout deletes the presented session.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if token != "" {
		s.DB.Where("token = ?", strings.TrimSpace(token)).Delete(&models.AuthSession{})
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the authenticated member.
func (s *AuthService) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.MemberFromCtx(c))
}

// ChangePassword lets a member change their own password.
func (s *AuthService) ChangePassword(c *fiber.Ctx) error {
	member := middleware.MemberFromCtx(c)

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if len(input.NewPassword) < 6 {
		return utils.Validation(c, "password must be at least 6 characters")
	}
	if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(input.CurrentPassword)) != nil {
		return utils.Unauthorized(c, "current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.Internal(c, "failed to hash password")
	}
	if err := s.DB.Model(&models.Member{}).Where("id = ?", member.ID).
		Update("password", string(hashed)).Error; err != nil {
		return utils.Internal(c, "failed to update password")
	}

	return c.JSON(fiber.Map{"message": "password updated"})
}
