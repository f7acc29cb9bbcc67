package services

import (
	"fmt"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the club settings, creating the singleton row with defaults on
// first access.
func (s *SettingsService) Get(c *fiber.Ctx) error {
	settings, err := s.load()
	if err != nil {
		return utils.Internal(c, "failed to load settings")
	}
	return c.JSON(settings)
}

// Update changes the bookable table count, bounded to [1, 50].
func (s *SettingsService) Update(c *fiber.Ctx) error {
	var input struct {
		TableCount int `json:"table_count"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation(c, "invalid request body")
	}
	if input.TableCount < models.MinTableCount || input.TableCount > models.MaxTableCount {
		return utils.Validation(c, fmt.Sprintf("table_count must be between %d and %d",
			models.MinTableCount, models.MaxTableCount))
	}

	settings, err := s.load()
	if err != nil {
		return utils.Internal(c, "failed to load settings")
	}

	settings.TableCount = input.TableCount
	if err := s.DB.Save(settings).Error; err != nil {
		return utils.Internal(c, "failed to update settings")
	}
	return c.JSON(settings)
}

func (s *SettingsService) load() (*models.ClubSettings, error) {
	var settings models.ClubSettings
	err := s.DB.Where(models.ClubSettings{ID: 1}).
		Attrs(models.ClubSettings{TableCount: models.DefaultTableCount}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
