package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AnandhuAsokan/salon-frontend/internal/booking"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
	"github.com/AnandhuAsokan/salon-frontend/internal/todo"
)

// dateKeyboard offers the allowed booking window: today through maxAdvance
// days ahead, inclusive. The widget restricts the pick; the workflow forwards
// whatever date string arrives and leaves validity to the server.
func dateKeyboard(now time.Time, maxAdvance int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	var row []tgbotapi.InlineKeyboardButton
	for i := 0; i <= maxAdvance; i++ {
		d := now.AddDate(0, 0, i)
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02 Jan")
		if i == 0 {
			label = "Today"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "date:"+dateStr))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func confirmDateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirm Date", "confirmdate"),
			tgbotapi.NewInlineKeyboardButtonData("✖ Close", "closebooking"),
		),
	)
}

// slotsKeyboard renders slot chips grouped per staff, three per row, with a
// header row naming the staff member.
func slotsKeyboard(slots []models.StaffAvailability) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for _, staff := range slots {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("👤 "+staff.Name, "noop"),
		})
		var row []tgbotapi.InlineKeyboardButton
		for _, slot := range staff.Slots {
			data := fmt.Sprintf("slot:%s|%s", staff.StaffID, slot)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(slot, data))
			if len(row) == 3 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("✖ Close", "closebooking"),
	})
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func selectionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirm Booking", "confirmbooking"),
			tgbotapi.NewInlineKeyboardButtonData("✖ Close", "closebooking"),
		),
	)
}

// historyKeyboard offers status filters and a cancel button per active
// booking.
func historyKeyboard(bookings []models.Booking) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("All", "histfilter:"),
			tgbotapi.NewInlineKeyboardButtonData("Pending", "histfilter:"+models.BookingPending),
			tgbotapi.NewInlineKeyboardButtonData("Confirmed", "histfilter:"+models.BookingConfirmed),
		},
	}
	for i := range bookings {
		bk := &bookings[i]
		if bk.CanCancel() {
			label := fmt.Sprintf("Cancel %s %s", bk.Service.Name, bk.Date)
			rows = append(rows, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(label, "cancelbk:"+bk.ID),
			})
		}
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// todosKeyboard renders per-item actions plus page navigation and the
// page-size switcher.
func todosKeyboard(view todo.View) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for i := range view.Todos {
		t := &view.Todos[i]
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+t.Title, "tododel:"+t.ID),
		}
		if t.Status != models.TodoCompleted {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("✓ done", "tododone:"+t.ID))
		}
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if view.Page > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("todopage:%d", view.Page-1)))
	}
	if view.Page < view.TotalPages() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("todopage:%d", view.Page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	var sizes []tgbotapi.InlineKeyboardButton
	for _, s := range todo.PageSizes {
		label := fmt.Sprintf("%d", s)
		if s == view.PageSize {
			label = fmt.Sprintf("·%d·", s)
		}
		sizes = append(sizes, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("todosize:%d", s)))
	}
	rows = append(rows, sizes)

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func newDatePromptMessage(chatID int64, service *models.Service, maxAdvance int) tgbotapi.MessageConfig {
	text := fmt.Sprintf("*%s*\n%s\n⏱ %d min · 💵 $%.0f\n\nSelect a date:",
		service.Name, service.Description, service.Duration, service.Price)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = dateKeyboard(time.Now(), maxAdvance)
	return msg
}

func (b *Bot) sendCalendar(chatID int64, service *models.Service) {
	if service == nil {
		return
	}
	msg := newDatePromptMessage(chatID, service, b.opts.MaxAdvanceDays)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) sendConfirmDateKeyboard(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Check availability for the picked date?")
	msg.ReplyMarkup = confirmDateKeyboard()
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) sendSlots(chatID int64, snap booking.Snapshot) {
	msg := tgbotapi.NewMessage(chatID, "Available slots for "+snap.Date+":")
	msg.ReplyMarkup = slotsKeyboard(snap.Slots)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) sendSelectionSummary(chatID int64, snap booking.Snapshot) {
	if snap.Selection == nil {
		return
	}
	text := fmt.Sprintf("Selected: *%s* with *%s* on %s",
		snap.Selection.TimeSlot, snap.Selection.StaffName, snap.Selection.Date)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = selectionKeyboard()
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}
