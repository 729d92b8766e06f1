// Package bot is the Telegram front end. It renders controller state and
// forwards user actions; all booking and todo logic lives in the controller
// packages.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/booking"
	"github.com/AnandhuAsokan/salon-frontend/internal/events"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
	"github.com/AnandhuAsokan/salon-frontend/internal/session"
	"github.com/AnandhuAsokan/salon-frontend/internal/todo"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

func (c *realTelegramClient) Request(msg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.api.Request(msg)
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

// Options tune bot behavior.
type Options struct {
	// MaxAdvanceDays is the date-picker window (today..today+N inclusive).
	MaxAdvanceDays int
	// ConfirmAckDelay is the pause between the celebratory cue and the
	// confirmation acknowledgment.
	ConfirmAckDelay time.Duration
	// Admins may use the admin commands.
	Admins []int64
}

// Bot wires the controllers to Telegram chats.
type Bot struct {
	tg        telegramClient
	client    *api.Client
	session   *session.Session
	workflows *booking.WorkflowStore
	todos     map[int64]*todo.Controller
	services  []models.Service
	inputs    *inputStore
	bus       *events.Bus
	opts      Options
	admins    map[int64]struct{}
	logger    zerolog.Logger

	chatsMu sync.Mutex
	chats   map[int64]time.Time // chatID -> last activity, for reminders
}

// New connects to Telegram and builds the bot.
func New(token string, client *api.Client, sess *session.Session, workflows *booking.WorkflowStore, opts Options, logger zerolog.Logger) (*Bot, error) {
	tgAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(&realTelegramClient{api: tgAPI}, client, sess, workflows, opts, logger), nil
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, client *api.Client, sess *session.Session, workflows *booking.WorkflowStore, opts Options, logger zerolog.Logger) *Bot {
	return newBot(tg, client, sess, workflows, opts, logger)
}

func newBot(tg telegramClient, client *api.Client, sess *session.Session, workflows *booking.WorkflowStore, opts Options, logger zerolog.Logger) *Bot {
	if opts.MaxAdvanceDays <= 0 {
		opts.MaxAdvanceDays = 15
	}
	if opts.ConfirmAckDelay <= 0 {
		opts.ConfirmAckDelay = time.Second
	}
	admins := make(map[int64]struct{}, len(opts.Admins))
	for _, id := range opts.Admins {
		admins[id] = struct{}{}
	}
	return &Bot{
		tg:        tg,
		client:    client,
		session:   sess,
		workflows: workflows,
		todos:     make(map[int64]*todo.Controller),
		inputs:    newInputStore(),
		opts:      opts,
		admins:    admins,
		chats:     make(map[int64]time.Time),
		logger:    logger.With().Str("component", "bot").Logger(),
	}
}

// SetEventBus publishes booking lifecycle events to the bus.
func (b *Bot) SetEventBus(bus *events.Bus) {
	b.bus = bus
}

func (b *Bot) publish(eventType string, booked *models.Booking) {
	if b.bus != nil {
		b.bus.Publish(events.Event{Type: eventType, Booking: booked})
	}
}

func (b *Bot) touchChat(chatID int64) {
	b.chatsMu.Lock()
	b.chats[chatID] = time.Now()
	b.chatsMu.Unlock()
}

// Start processes updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.tg.GetUpdatesChan(cfg)

	cleanup := time.NewTicker(10 * time.Minute)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := b.workflows.Cleanup(); removed > 0 {
				b.logger.Debug().Int("removed", removed).Msg("expired workflows dropped")
			}
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	b.touchChat(chatID)

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Non-command text feeds the pending input prompt, if any.
	if b.inputs.step(userID) != stepNone {
		b.handleInput(ctx, userID, chatID, strings.TrimSpace(msg.Text))
		return
	}
	b.reply(chatID, "Use /services to book an appointment or /todos to manage your tasks.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "login":
		b.inputs.set(userID, stepLoginEmail, nil)
		b.reply(chatID, "Email:")
	case "signup":
		b.inputs.set(userID, stepSignupName, nil)
		b.reply(chatID, "Admin signup. Full name:")
	case "logout":
		b.session.Logout(ctx)
		b.reply(chatID, "Logged out.")
	case "whoami":
		b.replyWhoAmI(chatID)
	case "services":
		b.showServices(ctx, chatID, 0, 0)
	case "history":
		b.requireAuth(chatID, func() { b.showHistory(ctx, chatID, "") })
	case "todos":
		b.requireAuth(chatID, func() { b.showTodos(ctx, userID, chatID, 0) })
	case "addtodo":
		b.requireAuth(chatID, func() {
			b.inputs.set(userID, stepTodoTitle, nil)
			b.reply(chatID, "Todo title:")
		})
	case "cancel":
		b.inputs.reset(userID)
		b.workflows.Reset(userID)
		b.reply(chatID, "Cancelled.")
	case "export":
		b.requireAdmin(userID, chatID, func() { b.sendBookingReport(ctx, chatID) })
	case "analytics":
		b.requireAdmin(userID, chatID, func() { b.showAnalytics(ctx, chatID) })
	case "holiday":
		b.requireAdmin(userID, chatID, func() {
			b.inputs.set(userID, stepHolidayDate, nil)
			b.reply(chatID, "Holiday date (YYYY-MM-DD):")
		})
	case "adminlogin":
		// Allowlist check only; the caller is not signed in yet.
		if _, ok := b.admins[userID]; !ok {
			b.reply(chatID, "Admin access required.")
			return
		}
		b.inputs.set(userID, stepAdminEmail, nil)
		b.reply(chatID, "Admin email:")
	case "staff":
		b.requireAdmin(userID, chatID, func() {
			b.showStaff(ctx, chatID, strings.TrimSpace(msg.CommandArguments()))
		})
	case "addstaff":
		b.requireAdmin(userID, chatID, func() {
			b.inputs.set(userID, stepStaffName, nil)
			b.reply(chatID, "Staff name:")
		})
	case "editstaff":
		b.requireAdmin(userID, chatID, func() {
			id := strings.TrimSpace(msg.CommandArguments())
			if id == "" {
				b.reply(chatID, "Usage: /editstaff <staff-id>")
				return
			}
			b.inputs.set(userID, stepStaffName, map[string]string{"id": id})
			b.reply(chatID, "Staff name:")
		})
	case "addservice":
		b.requireAdmin(userID, chatID, func() {
			b.inputs.set(userID, stepServiceName, nil)
			b.reply(chatID, "Service name:")
		})
	case "editservice":
		b.requireAdmin(userID, chatID, func() {
			id := strings.TrimSpace(msg.CommandArguments())
			if id == "" {
				b.reply(chatID, "Usage: /editservice <service-id>")
				return
			}
			b.inputs.set(userID, stepServiceName, map[string]string{"id": id})
			b.reply(chatID, "Service name:")
		})
	case "toggleservice":
		b.requireAdmin(userID, chatID, func() {
			b.toggleService(ctx, chatID, msg.CommandArguments())
		})
	case "weeklyoff":
		b.requireAdmin(userID, chatID, func() {
			b.inputs.set(userID, stepWeeklyOff, nil)
			b.reply(chatID, "Weekly closed day (e.g. Sunday):")
		})
	case "hours":
		b.requireAdmin(userID, chatID, func() {
			b.inputs.set(userID, stepWorkingHours, nil)
			b.reply(chatID, "Working hours (HH:MM-HH:MM):")
		})
	default:
		b.reply(chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	data := cb.Data
	b.touchChat(chatID)

	// Always acknowledge so the client stops the spinner.
	_, _ = b.tg.Request(tgbotapi.NewCallback(cb.ID, ""))

	switch {
	case data == "noop":
	case strings.HasPrefix(data, "svcpage:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "svcpage:"))
		b.showServices(ctx, chatID, messageID, page)
	case strings.HasPrefix(data, "book:"):
		b.startBooking(chatID, userID, strings.TrimPrefix(data, "book:"))
	case strings.HasPrefix(data, "date:"):
		b.chooseDate(chatID, userID, strings.TrimPrefix(data, "date:"))
	case data == "confirmdate":
		b.confirmDate(ctx, chatID, userID)
	case strings.HasPrefix(data, "slot:"):
		b.selectSlot(chatID, userID, strings.TrimPrefix(data, "slot:"))
	case data == "confirmbooking":
		b.confirmBooking(ctx, chatID, userID)
	case data == "closebooking":
		b.workflows.Reset(userID)
		b.reply(chatID, "Booking closed.")
	case strings.HasPrefix(data, "histfilter:"):
		b.showHistory(ctx, chatID, strings.TrimPrefix(data, "histfilter:"))
	case strings.HasPrefix(data, "cancelbk:"):
		b.cancelBooking(ctx, chatID, strings.TrimPrefix(data, "cancelbk:"))
	case strings.HasPrefix(data, "todopage:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "todopage:"))
		b.gotoTodoPage(ctx, userID, chatID, page)
	case strings.HasPrefix(data, "todosize:"):
		size, _ := strconv.Atoi(strings.TrimPrefix(data, "todosize:"))
		b.setTodoPageSize(ctx, userID, chatID, size)
	case strings.HasPrefix(data, "tododel:"):
		b.deleteTodo(ctx, userID, chatID, strings.TrimPrefix(data, "tododel:"))
	case strings.HasPrefix(data, "tododone:"):
		b.completeTodo(ctx, userID, chatID, strings.TrimPrefix(data, "tododone:"))
	default:
		b.logger.Debug().Str("data", data).Msg("unhandled callback")
	}
}

func (b *Bot) requireAuth(chatID int64, fn func()) {
	if !b.session.Authenticated() {
		b.reply(chatID, "Please /login first.")
		return
	}
	fn()
}

func (b *Bot) requireAdmin(userID, chatID int64, fn func()) {
	if _, ok := b.admins[userID]; !ok {
		b.reply(chatID, "Admin access required.")
		return
	}
	b.requireAuth(chatID, fn)
}

func (b *Bot) replyWhoAmI(chatID int64) {
	user := b.session.User()
	if user == nil {
		b.reply(chatID, "Not signed in.")
		return
	}
	text := fmt.Sprintf("Signed in as %s (%s)", user.Name, user.Email)
	if exp := b.session.ExpiresAt(); !exp.IsZero() {
		text += fmt.Sprintf("\nSession expires %s", exp.Format("2006-01-02 15:04"))
	}
	b.reply(chatID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

const helpText = `Salon booking bot.

/login — sign in
/services — browse services and book
/history — your bookings
/todos — your task list
/addtodo — create a task
/logout — sign out
/cancel — abort the current dialog`
