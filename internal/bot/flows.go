package bot

import (
	"context"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
)

// handleInput routes non-command text into the pending prompt.
func (b *Bot) handleInput(ctx context.Context, userID, chatID int64, text string) {
	switch b.inputs.step(userID) {
	case stepLoginEmail:
		b.inputs.set(userID, stepLoginPass, map[string]string{"email": text})
		b.reply(chatID, "Password:")
	case stepLoginPass:
		b.finishLogin(ctx, userID, chatID, text)
	case stepSignupName:
		b.inputs.set(userID, stepSignupEmail, map[string]string{"name": text})
		b.reply(chatID, "Email:")
	case stepSignupEmail:
		b.inputs.set(userID, stepSignupPass, map[string]string{"email": text})
		b.reply(chatID, "Password:")
	case stepSignupPass:
		b.inputs.set(userID, stepSignupRepeat, map[string]string{"password": text})
		b.reply(chatID, "Repeat password:")
	case stepSignupRepeat:
		b.finishSignup(ctx, userID, chatID, text)
	case stepTodoTitle:
		b.inputs.set(userID, stepTodoDesc, map[string]string{"title": text})
		b.reply(chatID, "Description:")
	case stepTodoDesc:
		b.finishAddTodo(ctx, userID, chatID, text)
	case stepHolidayDate:
		b.finishHoliday(ctx, userID, chatID, text)
	case stepAdminEmail:
		b.inputs.set(userID, stepAdminPass, map[string]string{"email": text})
		b.reply(chatID, "Password:")
	case stepAdminPass:
		b.finishAdminLogin(ctx, userID, chatID, text)
	case stepServiceName:
		b.inputs.set(userID, stepServicePrice, map[string]string{"name": text})
		b.reply(chatID, "Price:")
	case stepServicePrice:
		b.inputs.set(userID, stepServiceDur, map[string]string{"price": text})
		b.reply(chatID, "Duration in minutes:")
	case stepServiceDur:
		b.finishService(ctx, userID, chatID, text)
	case stepStaffName:
		b.inputs.set(userID, stepStaffAge, map[string]string{"name": text})
		b.reply(chatID, "Age:")
	case stepStaffAge:
		b.inputs.set(userID, stepStaffGender, map[string]string{"age": text})
		b.reply(chatID, "Gender:")
	case stepStaffGender:
		b.finishStaff(ctx, userID, chatID, text)
	case stepWeeklyOff:
		b.finishWeeklyOff(ctx, userID, chatID, text)
	case stepWorkingHours:
		b.finishWorkingHours(ctx, userID, chatID, text)
	default:
		b.inputs.reset(userID)
	}
}

func (b *Bot) finishLogin(ctx context.Context, userID, chatID int64, password string) {
	email := b.inputs.fields(userID)["email"]
	b.inputs.reset(userID)

	resp, err := b.client.Login(ctx, email, password)
	if err != nil {
		b.reply(chatID, api.ErrorMessage(err, "An unexpected error occurred."))
		return
	}
	if err := b.session.Login(ctx, resp.Token, resp.User); err != nil {
		b.logger.Error().Err(err).Msg("failed to persist session")
	}
	b.reply(chatID, "Welcome back, "+resp.User.Name+". Try /services or /todos.")
}

func (b *Bot) finishSignup(ctx context.Context, userID, chatID int64, repeat string) {
	fields := b.inputs.fields(userID)
	b.inputs.reset(userID)

	req := api.SignupRequest{
		Name:            fields["name"],
		Email:           fields["email"],
		Password:        fields["password"],
		ConfirmPassword: repeat,
	}
	// Validation failures surface inline; the endpoint is never called.
	if err := req.Validate(); err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if _, err := b.client.AdminSignup(ctx, req); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "An unexpected error occurred."))
		return
	}
	b.reply(chatID, "Account created. Use /login to sign in.")
}

func (b *Bot) finishAddTodo(ctx context.Context, userID, chatID int64, description string) {
	title := b.inputs.fields(userID)["title"]
	b.inputs.reset(userID)

	if title == "" {
		b.reply(chatID, "Title is required.")
		return
	}
	ctrl := b.todoController(userID)
	if err := ctrl.Create(ctx, title, description); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to add todo."))
		return
	}
	b.renderTodos(userID, chatID, 0)
}

func (b *Bot) finishHoliday(ctx context.Context, userID, chatID int64, date string) {
	b.inputs.reset(userID)
	if err := b.client.SetHoliday(ctx, date); err != nil {
		b.reply(chatID, api.ErrorMessage(err, "Failed to set holiday."))
		return
	}
	b.reply(chatID, "Holiday saved for "+date+".")
}
