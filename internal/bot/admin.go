package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
	"github.com/AnandhuAsokan/salon-frontend/internal/reports"
)

// sendBookingReport exports all bookings to an Excel workbook and sends it
// as a document.
func (b *Bot) sendBookingReport(ctx context.Context, chatID int64) {
	bookings, err := b.client.ListBookings(ctx)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to load bookings."))
		return
	}

	writer := reports.NewExcelizeWriter()
	defer writer.Close()
	sheet := time.Now().Format("Jan 2006")
	if err := reports.WriteBookingReport(writer, sheet, bookings); err != nil {
		b.logger.Error().Err(err).Msg("report build failed")
		b.reply(chatID, "Failed to build report.")
		return
	}

	var buf bytes.Buffer
	if err := writer.Save(&buf); err != nil {
		b.logger.Error().Err(err).Msg("report save failed")
		b.reply(chatID, "Failed to build report.")
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("200601"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("%d bookings", len(bookings))
	if _, err := b.tg.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("send document failed")
	}
}

func (b *Bot) finishAdminLogin(ctx context.Context, userID, chatID int64, password string) {
	email := b.inputs.fields(userID)["email"]
	b.inputs.reset(userID)

	resp, err := b.client.AdminLogin(ctx, email, password)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "An unexpected error occurred."))
		return
	}
	if err := b.session.Login(ctx, resp.Token, resp.User); err != nil {
		b.logger.Error().Err(err).Msg("failed to persist session")
	}
	b.reply(chatID, "Signed in as admin "+resp.User.Name+".")
}

// showStaff lists staff records, optionally filtered to one service.
func (b *Bot) showStaff(ctx context.Context, chatID int64, serviceID string) {
	var (
		staff []models.Staff
		err   error
	)
	if serviceID != "" {
		staff, err = b.client.StaffForService(ctx, serviceID)
	} else {
		staff, err = b.client.ListStaff(ctx)
	}
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to load staff."))
		return
	}
	if len(staff) == 0 {
		b.reply(chatID, "No staff found.")
		return
	}
	var sb strings.Builder
	for i := range staff {
		s := &staff[i]
		sb.WriteString(fmt.Sprintf("%s — %s, %s", s.ID, s.Name, s.Status))
		if r := s.AverageRating(); r > 0 {
			sb.WriteString(fmt.Sprintf(" ★%.1f", r))
		}
		sb.WriteString("\n")
	}
	b.reply(chatID, sb.String())
}

// finishService closes the add/edit service prompt chain. A stashed "id"
// field means edit; otherwise a new entry is created.
func (b *Bot) finishService(ctx context.Context, userID, chatID int64, durationText string) {
	fields := b.inputs.fields(userID)
	b.inputs.reset(userID)

	price, priceErr := strconv.ParseFloat(fields["price"], 64)
	duration, durErr := strconv.Atoi(durationText)
	if priceErr != nil || durErr != nil || price <= 0 || duration <= 0 {
		b.reply(chatID, "Price and duration must be positive numbers.")
		return
	}
	in := api.ServiceInput{Name: fields["name"], Price: price, Duration: duration}
	if id := fields["id"]; id != "" {
		if _, err := b.client.UpdateService(ctx, id, in); err != nil {
			b.reply(chatID, api.ErrorMessage(err, "Failed to update service."))
			return
		}
		b.reply(chatID, "Service updated.")
		return
	}
	if _, err := b.client.CreateService(ctx, in); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to create service."))
		return
	}
	b.reply(chatID, "Service created.")
}

// finishStaff closes the add/edit staff prompt chain.
func (b *Bot) finishStaff(ctx context.Context, userID, chatID int64, gender string) {
	fields := b.inputs.fields(userID)
	b.inputs.reset(userID)

	age, err := strconv.Atoi(fields["age"])
	if err != nil || age <= 0 {
		b.reply(chatID, "Age must be a number.")
		return
	}
	in := api.StaffInput{Name: fields["name"], Age: age, Gender: gender, Status: "active"}
	if id := fields["id"]; id != "" {
		if _, err := b.client.UpdateStaff(ctx, id, in); err != nil {
			b.reply(chatID, api.ErrorMessage(err, "Failed to update staff member."))
			return
		}
		b.reply(chatID, "Staff member updated.")
		return
	}
	if _, err := b.client.CreateStaff(ctx, in); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to add staff member."))
		return
	}
	b.reply(chatID, "Staff member added.")
}

func (b *Bot) toggleService(ctx context.Context, chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
		b.reply(chatID, "Usage: /toggleservice <service-id> on|off")
		return
	}
	if err := b.client.SetServiceActive(ctx, parts[0], parts[1] == "on"); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to update service."))
		return
	}
	if parts[1] == "on" {
		b.reply(chatID, "Service enabled.")
	} else {
		b.reply(chatID, "Service disabled.")
	}
}

func (b *Bot) finishWeeklyOff(ctx context.Context, userID, chatID int64, weekday string) {
	b.inputs.reset(userID)
	if err := b.client.SetWeeklyOff(ctx, weekday); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to set the weekly off day."))
		return
	}
	b.reply(chatID, "Weekly off day saved: "+weekday+".")
}

func (b *Bot) finishWorkingHours(ctx context.Context, userID, chatID int64, text string) {
	b.inputs.reset(userID)
	start, end, ok := strings.Cut(text, "-")
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if !ok || start == "" || end == "" {
		b.reply(chatID, "Use the form HH:MM-HH:MM.")
		return
	}
	if err := b.client.SetWorkingHours(ctx, start, end); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to set working hours."))
		return
	}
	b.reply(chatID, "Working hours saved: "+start+" to "+end+".")
}

// showAnalytics renders the last-30-days aggregates plus peak hours.
func (b *Bot) showAnalytics(ctx context.Context, chatID int64) {
	end := time.Now().Format("2006-01-02")
	start := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	stats, err := b.client.Analytics(ctx, start, end)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to load analytics."))
		return
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("📊 *Last 30 days*\n\nBookings: %d\nRevenue: $%.2f\nCompleted: %d\nCancelled: %d\n",
		stats.TotalBookings, stats.TotalRevenue, stats.Completed, stats.Cancelled))

	if peaks, err := b.client.PeakTimes(ctx, start, end); err == nil && len(peaks) > 0 {
		message.WriteString("\n*Peak hours*\n")
		for _, p := range peaks {
			message.WriteString(fmt.Sprintf("%s — %d bookings\n", p.Hour, p.Count))
		}
	}

	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}
