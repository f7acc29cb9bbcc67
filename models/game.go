// models/game.go
package models

import "time"

// Game is a board game the club owns or members bring along.
// Managed by admins; the frontpage flag controls the public games list.
type Game struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug            string    `json:"slug" gorm:"index"`
	IconURL         string    `json:"icon_url,omitempty"` // public R2 URL
	ShowOnFrontpage bool      `json:"show_on_frontpage" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
