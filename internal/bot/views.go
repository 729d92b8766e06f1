package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
	"github.com/AnandhuAsokan/salon-frontend/internal/todo"
)

const servicesPerPage = 5

// showServices fetches the catalog and renders one page of it. messageID 0
// sends a new message, otherwise the existing one is edited in place.
func (b *Bot) showServices(ctx context.Context, chatID int64, messageID, page int) {
	services, err := b.client.ListServices(ctx)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to load services."))
		return
	}
	// Backends that omit the active flag entirely would filter to nothing,
	// so only apply the flag when at least one service carries it.
	active := services
	if anyActive(services) {
		active = make([]models.Service, 0, len(services))
		for _, s := range services {
			if s.IsActive {
				active = append(active, s)
			}
		}
	}
	b.services = active

	if len(active) == 0 {
		b.reply(chatID, "No services available right now.")
		return
	}

	startIdx := page * servicesPerPage
	if startIdx >= len(active) {
		startIdx, page = 0, 0
	}
	endIdx := startIdx + servicesPerPage
	if endIdx > len(active) {
		endIdx = len(active)
	}

	var message strings.Builder
	message.WriteString("💇 *Our Services*\n\n")
	totalPages := (len(active) + servicesPerPage - 1) / servicesPerPage
	message.WriteString(fmt.Sprintf("Page %d of %d\n\n", page+1, totalPages))

	current := active[startIdx:endIdx]
	for i, svc := range current {
		message.WriteString(fmt.Sprintf("%d. *%s* — $%.0f\n", startIdx+i+1, svc.Name, svc.Price))
		if svc.Description != "" {
			message.WriteString(fmt.Sprintf("   %s\n", svc.Description))
		}
		message.WriteString(fmt.Sprintf("   ⏱ %d min · %s · 👤 %s\n\n", svc.Duration, svc.Category, svc.IdealFor))
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, svc := range current {
		btn := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Book %d. %s", startIdx+i+1, svc.Name),
			"book:"+svc.ID,
		)
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("svcpage:%d", page-1)))
	}
	if endIdx < len(active) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("svcpage:%d", page+1)))
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if messageID != 0 {
		editMsg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, message.String(), markup)
		editMsg.ParseMode = "Markdown"
		if _, err := b.tg.Send(editMsg); err != nil {
			b.logger.Error().Err(err).Msg("edit failed")
		}
		return
	}
	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ReplyMarkup = markup
	msg.ParseMode = "Markdown"
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func anyActive(services []models.Service) bool {
	for _, s := range services {
		if s.IsActive {
			return true
		}
	}
	return false
}

// showHistory renders the customer's bookings, optionally filtered by status
// client-side.
func (b *Bot) showHistory(ctx context.Context, chatID int64, status string) {
	bookings, err := b.client.ClientBookings(ctx)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to load booking history."))
		return
	}
	filtered := models.FilterBookingsByStatus(bookings, status)
	if len(filtered) == 0 {
		b.reply(chatID, "You have no bookings yet. Use /services to book.")
		return
	}

	var message strings.Builder
	message.WriteString("📋 *Booking History*\n\n")
	for i := range filtered {
		bk := &filtered[i]
		message.WriteString(fmt.Sprintf("*%s* with %s\n📅 %s ⏰ %s–%s\n💰 $%.2f · %s\n\n",
			bk.Service.Name, bk.Staff.Name, bk.Date, bk.StartTime, bk.EndTime, bk.Amount, bk.Status))
	}

	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = historyKeyboard(filtered)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) todoController(userID int64) *todo.Controller {
	ctrl, ok := b.todos[userID]
	if !ok {
		ctrl = todo.NewController(b.client)
		b.todos[userID] = ctrl
	}
	return ctrl
}

// showTodos fetches and renders the current todo page.
func (b *Bot) showTodos(ctx context.Context, userID, chatID int64, messageID int) {
	ctrl := b.todoController(userID)
	if err := ctrl.Fetch(ctx); err != nil {
		b.reply(chatID, ctrl.View().LastError)
		return
	}
	b.renderTodos(userID, chatID, messageID)
}

func (b *Bot) renderTodos(userID, chatID int64, messageID int) {
	view := b.todoController(userID).View()

	var message strings.Builder
	message.WriteString("📝 *Your Todos*\n\n")
	if len(view.Todos) == 0 {
		message.WriteString("Nothing here. Use /addtodo to create one.\n")
	}
	for i := range view.Todos {
		t := &view.Todos[i]
		mark := "○"
		if t.Status == models.TodoCompleted {
			mark = "✅"
		}
		message.WriteString(fmt.Sprintf("%s *%s* — %s\n", mark, t.Title, t.Status))
		if t.Description != "" {
			message.WriteString(fmt.Sprintf("   %s\n", t.Description))
		}
	}
	approx := ""
	if view.TotalEst {
		approx = "~"
	}
	message.WriteString(fmt.Sprintf("\nPage %d of %s%d · %s%d total",
		view.Page, approx, view.TotalPages(), approx, view.Total))

	markup := todosKeyboard(view)
	if messageID != 0 {
		editMsg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, message.String(), markup)
		editMsg.ParseMode = "Markdown"
		if _, err := b.tg.Send(editMsg); err != nil {
			b.logger.Error().Err(err).Msg("edit failed")
		}
		return
	}
	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = markup
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) gotoTodoPage(ctx context.Context, userID, chatID int64, page int) {
	ctrl := b.todoController(userID)
	if err := ctrl.SetPage(ctx, page); err != nil {
		b.reply(chatID, ctrl.View().LastError)
		return
	}
	b.renderTodos(userID, chatID, 0)
}

func (b *Bot) setTodoPageSize(ctx context.Context, userID, chatID int64, size int) {
	ctrl := b.todoController(userID)
	if err := ctrl.SetPageSize(ctx, size); err != nil {
		b.reply(chatID, ctrl.View().LastError)
		return
	}
	b.renderTodos(userID, chatID, 0)
}

func (b *Bot) deleteTodo(ctx context.Context, userID, chatID int64, id string) {
	ctrl := b.todoController(userID)
	if err := ctrl.Delete(ctx, id); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to delete todo."))
		return
	}
	b.renderTodos(userID, chatID, 0)
}

func (b *Bot) completeTodo(ctx context.Context, userID, chatID int64, id string) {
	ctrl := b.todoController(userID)
	view := ctrl.View()
	var target *models.Todo
	for i := range view.Todos {
		if view.Todos[i].ID == id {
			target = &view.Todos[i]
			break
		}
	}
	if target == nil {
		return
	}
	in := api.TodoInput{Title: target.Title, Description: target.Description, Status: models.TodoCompleted}
	if err := ctrl.Update(ctx, id, in); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to update todo."))
		return
	}
	b.renderTodos(userID, chatID, 0)
}
