package services

import (
	"sort"
	"time"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsService struct {
	DB *gorm.DB

	// Injected clock, see BookingService.
	Now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, Now: time.Now}
}

type gameStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type weeklyStat struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
	Players  int    `json:"players"`
}

// Overview aggregates club activity for the admin stats page: totals, the
// ten most-booked games, a 12-week booking trend and the tier breakdown.
func (s *StatsService) Overview(c *fiber.Ctx) error {
	var bookings []models.Booking
	err := utils.WithReadRetry(func() error {
		return s.DB.Preload("Game").Preload("Players").Order("date DESC").Find(&bookings).Error
	})
	if err != nil {
		return utils.Internal(c, "failed to fetch bookings")
	}

	var totalMembers int64
	s.DB.Model(&models.Member{}).Count(&totalMembers)

	// Unique members who have ever booked or joined
	uniquePlayers := map[string]bool{}
	for _, b := range bookings {
		uniquePlayers[b.CreatedByID] = true
		for _, p := range b.Players {
			uniquePlayers[p.ID] = true
		}
	}

	// Game popularity
	gameCounts := map[string]*gameStat{}
	for _, b := range bookings {
		if gameCounts[b.GameID] == nil {
			gameCounts[b.GameID] = &gameStat{Name: b.Game.Name}
		}
		gameCounts[b.GameID].Count++
	}
	topGames := make([]gameStat, 0, len(gameCounts))
	for _, g := range gameCounts {
		topGames = append(topGames, *g)
	}
	sort.Slice(topGames, func(i, j int) bool { return topGames[i].Count > topGames[j].Count })
	if len(topGames) > 10 {
		topGames = topGames[:10]
	}

	// Weekly trend over the last 12 weeks. Booking dates are already session
	// Mondays, so they key the weeks directly.
	cutoff := s.Now().AddDate(0, 0, -84)
	weekly := map[string]*weeklyStat{}
	for _, b := range bookings {
		if b.Date.Before(cutoff) {
			continue
		}
		key := b.Date.Format("2006-01-02")
		if weekly[key] == nil {
			weekly[key] = &weeklyStat{Date: key}
		}
		weekly[key].Bookings++
		weekly[key].Players += len(b.Players) + 1 // +1 for creator
	}
	trends := make([]weeklyStat, 0, len(weekly))
	for _, w := range weekly {
		trends = append(trends, *w)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })

	// Membership breakdown
	type tierCount struct {
		MembershipType string `json:"membership_type"`
		Count          int64  `json:"count"`
	}
	var tiers []tierCount
	s.DB.Model(&models.Member{}).
		Select("membership_type, COUNT(*) as count").
		Group("membership_type").
		Scan(&tiers)

	return c.JSON(fiber.Map{
		"total_bookings": len(bookings),
		"total_members":  totalMembers,
		"active_players": len(uniquePlayers),
		"top_games":      topGames,
		"weekly_trends":  trends,
		"memberships":    tiers,
	})
}
