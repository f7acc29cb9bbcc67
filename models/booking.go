// models/booking.go
package models

import (
	"time"
)

const (
	BookingStatusActive    = "ACTIVE"
	BookingStatusCompleted = "COMPLETED"
)

// Booking reserves one table for one Monday session. The creator implicitly
// occupies the first seat, so PlayersCount starts at 1 and Players holds only
// the members who joined afterwards.
type Booking struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Date        time.Time `json:"date" gorm:"not null;index;uniqueIndex:idx_table_per_session"`
	TableNumber int       `json:"table_number" gorm:"not null;uniqueIndex:idx_table_per_session"`
	GameID      string    `json:"game_id" gorm:"not null"`
	CreatedByID string    `json:"created_by_id" gorm:"index;not null"`

	PlayersNeeded int    `json:"players_needed" gorm:"not null"`
	PlayersCount  int    `json:"players_count" gorm:"not null;default:1"` // creator included; guards the capacity check
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status" gorm:"type:varchar(16);default:'ACTIVE';index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Game        Game     `json:"game,omitempty" gorm:"foreignKey:GameID"`
	Creator     Member   `json:"creator,omitempty" gorm:"foreignKey:CreatedByID"`
	Players     []Member `json:"players" gorm:"many2many:booking_players"`
	PaidPlayers []Member `json:"paid_players" gorm:"many2many:booking_paid_players"`
}

// AllPlayers returns the creator unioned with the joined players,
// de-duplicated by ID. The creator should never also be in Players, but the
// read path tolerates it.
func (b *Booking) AllPlayers() []Member {
	seen := map[string]bool{b.Creator.ID: true}
	all := []Member{b.Creator}
	for _, p := range b.Players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		all = append(all, p)
	}
	return all
}

// HasPlayer reports whether the member is the creator or a joined player.
func (b *Booking) HasPlayer(memberID string) bool {
	if b.CreatedByID == memberID {
		return true
	}
	for _, p := range b.Players {
		if p.ID == memberID {
			return true
		}
	}
	return false
}
