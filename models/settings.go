// models/settings.go
package models

import "time"

// Bounds for the bookable table count.
const (
	MinTableCount     = 1
	MaxTableCount     = 50
	DefaultTableCount = 15
)

// ClubSettings is a singleton row (ID always 1) holding club-wide knobs.
type ClubSettings struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	TableCount int       `json:"table_count" gorm:"not null;default:15"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
