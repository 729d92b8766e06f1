package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// chatActivityWindow bounds which chats still receive reminders.
const chatActivityWindow = 7 * 24 * time.Hour

// StartReminders schedules a daily reminder about next-day appointments,
// sent to every recently active chat of the signed-in account.
func (b *Bot) StartReminders(ctx context.Context) {
	go func() {
		// First wait until next 09:00 local time, then tick every 24h.
		wait := timeUntilNextHour(9)
		timer := time.NewTimer(wait)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				b.sendTomorrowReminders(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

func (b *Bot) sendTomorrowReminders(ctx context.Context) {
	if !b.session.Authenticated() {
		return
	}

	bookings, err := b.client.ClientBookings(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("reminder: fetch bookings failed")
		return
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	var due []models.Booking
	for _, bk := range bookings {
		if bk.Date == tomorrow && bk.IsActive() {
			due = append(due, bk)
		}
	}
	if len(due) == 0 {
		return
	}

	cutoff := time.Now().Add(-chatActivityWindow)
	b.chatsMu.Lock()
	chatIDs := make([]int64, 0, len(b.chats))
	for chatID, seen := range b.chats {
		if seen.After(cutoff) {
			chatIDs = append(chatIDs, chatID)
		} else {
			delete(b.chats, chatID)
		}
	}
	b.chatsMu.Unlock()

	for _, chatID := range chatIDs {
		for _, bk := range due {
			msg := tgbotapi.NewMessage(chatID, formatReminderMessage(bk))
			if _, err := b.tg.Send(msg); err != nil {
				b.logger.Error().Err(err).Int64("chat", chatID).Msg("reminder: send failed")
			}
		}
	}
}

func formatReminderMessage(b models.Booking) string {
	text := "Reminder: tomorrow you have " + b.Service.Name
	if b.StartTime != "" {
		text += " at " + b.StartTime
	}
	if b.Staff.Name != "" {
		text += " with " + b.Staff.Name
	}
	return text + "."
}

func timeUntilNextHour(hour int) time.Duration {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
