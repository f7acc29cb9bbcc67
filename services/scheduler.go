// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"club-booking-system/models"
	"club-booking-system/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StartSessionScheduler runs the club's periodic jobs:
//   - Monday 18:00: post the table summary to Discord
//   - hourly: complete past sessions and charge attendees, drop expired
//     login sessions
func (s *BookingService) StartSessionScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday),
			gocron.NewAtTimes(gocron.NewAtTime(18, 0, 0))),
		gocron.NewTask(s.SendMondaySummary),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			s.CompletePastSessions()
			s.DB.Where("expires_at < ?", s.Now()).Delete(&models.AuthSession{})
		}),
	)
}

// SendMondaySummary posts tonight's table lineup to the club Discord. Reads
// ACTIVE bookings for the resolved session date; never mutates booking state.
func (s *BookingService) SendMondaySummary() {
	sessionDate := utils.ResolveSessionDate(s.Now())

	var bookings []models.Booking
	err := s.DB.
		Preload("Game").Preload("Creator").Preload("Players").
		Where("date = ? AND status = ?", sessionDate, models.BookingStatusActive).
		Order("table_number ASC").
		Find(&bookings).Error
	if err != nil {
		log.Printf("[Scheduler] DB error building Monday summary: %v", err)
		return
	}

	if len(bookings) == 0 {
		utils.SendDiscordNotification("⚠️ **No tables booked for tonight's session.** ⚠️")
		log.Println("[Scheduler] No bookings found, sent empty-session notice")
		return
	}

	var b strings.Builder
	b.WriteString("🎲 **Tonight's Gaming Tables** 🎲\n\n")
	for _, booking := range bookings {
		b.WriteString(utils.FormatTableLine(booking.TableNumber, booking.Game.Name))
		b.WriteString(fmt.Sprintf("👤 %s (Creator)\n", displayName(booking.Creator)))
		for _, player := range booking.Players {
			if player.ID == booking.CreatedByID {
				continue
			}
			b.WriteString(fmt.Sprintf("👤 %s\n", displayName(player)))
		}
		b.WriteString("\n")
	}
	plural := "s"
	if len(bookings) == 1 {
		plural = ""
	}
	b.WriteString(fmt.Sprintf("**Total: %d table%s booked**", len(bookings), plural))

	utils.SendDiscordNotification(b.String())
	log.Printf("✅ [Scheduler] Monday summary sent (%d tables)", len(bookings))
}

// CompletePastSessions marks ACTIVE bookings from past sessions COMPLETED and
// charges each attendee who owes for the night: weekly members and lapsed
// paid members pay the session price; a free week is consumed instead of
// charged. One transaction per booking so a failure doesn't half-charge a
// table.
func (s *BookingService) CompletePastSessions() {
	now := s.Now()
	currentSession := utils.ResolveSessionDate(now)

	var bookings []models.Booking
	err := s.DB.
		Preload("Creator").Preload("Players").
		Where("date < ? AND status = ?", currentSession, models.BookingStatusActive).
		Find(&bookings).Error
	if err != nil {
		log.Printf("[Scheduler] DB error fetching past sessions: %v", err)
		return
	}

	for _, booking := range bookings {
		booking := booking
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			for _, member := range booking.AllPlayers() {
				if err := s.settleSessionCharge(tx, member, booking.Date, now); err != nil {
					return err
				}
			}
			return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
				Update("status", models.BookingStatusCompleted).Error
		})
		if err != nil {
			log.Printf("[Scheduler] Failed to complete booking %s: %v", booking.ID, err)
		} else {
			log.Printf("✅ [Scheduler] Completed table %d for %s", booking.TableNumber, booking.Date.Format("2006-01-02"))
		}
	}
}

func (s *BookingService) settleSessionCharge(tx *gorm.DB, member models.Member, sessionDate, now time.Time) error {
	// Re-read inside the transaction; the preloaded copy may be stale.
	var fresh models.Member
	if err := tx.First(&fresh, "id = ?", member.ID).Error; err != nil {
		return err
	}

	if fresh.FreeWeek {
		// Free week covers this session, then resets.
		return tx.Model(&models.Member{}).Where("id = ?", fresh.ID).
			Update("free_week", false).Error
	}
	if !fresh.NeedsPaymentForSession(now) {
		return nil
	}

	record := &models.PaymentRecord{
		ID:       uuid.NewString(),
		MemberID: fresh.ID,
		Amount:   models.WeeklySessionPrice,
		Type:     models.PaymentTypeCharge,
		Notes: fmt.Sprintf("Session %s (%s)", sessionDate.Format("2006-01-02"),
			utils.FormatGBP(models.WeeklySessionPrice)),
	}
	if err := tx.Create(record).Error; err != nil {
		return err
	}
	return tx.Model(&models.Member{}).Where("id = ?", fresh.ID).
		Update("balance_due", gorm.Expr("balance_due + ?", models.WeeklySessionPrice)).Error
}

func displayName(m models.Member) string {
	if m.RealName != "" {
		return m.RealName
	}
	return m.Username
}
