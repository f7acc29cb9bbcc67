package services

import (
	"errors"
	"log"
	"path/filepath"
	"strings"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

// ListGames returns games visible on the frontpage (the booking dialog's
// game picker).
func (s *GameService) ListGames(c *fiber.Ctx) error {
	var games []models.Game
	err := utils.WithReadRetry(func() error {
		return s.DB.Where("show_on_frontpage = ?", true).Order("name ASC").Find(&games).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch games")
	}
	return c.JSON(games)
}

// ListAllGames returns every game, including hidden ones. Admin view.
func (s *GameService) ListAllGames(c *fiber.Ctx) error {
	var games []models.Game
	err := utils.WithReadRetry(func() error {
		return s.DB.Order("name ASC").Find(&games).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch games")
	}
	return c.JSON(games)
}

// CreateGame adds a game to the catalogue. Accepts multipart form data with
// an optional icon, which goes to R2 as a small public asset.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return utils.Validation(c, "name is required")
	}

	var existing models.Game
	err := s.DB.First(&existing, "name = ?", name).Error
	if err == nil {
		return utils.Conflict(c, "a game with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Internal(c, "DB error")
	}

	game := &models.Game{
		ID:              uuid.NewString(),
		Name:            name,
		Slug:            slug.Make(name),
		ShowOnFrontpage: c.FormValue("show_on_frontpage", "true") != "false",
	}

	if iconFile, err := c.FormFile("icon"); err == nil && iconFile.Size > 0 {
		iconExt := filepath.Ext(iconFile.Filename)
		if iconExt == "" {
			iconExt = ".png"
		}
		iconKey := "game-icons/" + game.Slug + "-" + uuid.NewString() + iconExt
		iconURL, err := utils.UploadIconToR2(iconFile, iconKey)
		if err != nil {
			return utils.Internal(c, "failed to upload game icon")
		}
		game.IconURL = iconURL
	}

	if err := s.DB.Create(game).Error; err != nil {
		return utils.Internal(c, "failed to create game")
	}

	log.Printf("✅ Game added: %s", game.Name)
	return c.Status(fiber.StatusCreated).JSON(game)
}

// UpdateGame changes a game's name or frontpage visibility.
func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "game not found")
		}
		return utils.Internal(c, "DB error")
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		game.Name = name
		game.Slug = slug.Make(name)
	}
	if v := c.FormValue("show_on_frontpage"); v != "" {
		game.ShowOnFrontpage = v != "false"
	}

	if iconFile, err := c.FormFile("icon"); err == nil && iconFile.Size > 0 {
		iconExt := filepath.Ext(iconFile.Filename)
		if iconExt == "" {
			iconExt = ".png"
		}
		iconKey := "game-icons/" + game.Slug + "-" + uuid.NewString() + iconExt
		iconURL, err := utils.UploadIconToR2(iconFile, iconKey)
		if err != nil {
			return utils.Internal(c, "failed to upload game icon")
		}
		game.IconURL = iconURL
	}

	if err := s.DB.Save(&game).Error; err != nil {
		return utils.Internal(c, "failed to update game")
	}
	return c.JSON(game)
}

// DeleteGame removes a game, unless bookings still reference it.
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "game not found")
		}
		return utils.Internal(c, "DB error")
	}

	var bookingCount int64
	s.DB.Model(&models.Booking{}).Where("game_id = ?", id).Count(&bookingCount)
	if bookingCount > 0 {
		return utils.Conflict(c, "cannot delete game: bookings still reference it")
	}

	if err := s.DB.Delete(&game).Error; err != nil {
		return utils.Internal(c, "failed to delete game")
	}
	return c.JSON(fiber.Map{"message": "game deleted", "id": id})
}
