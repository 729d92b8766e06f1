package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnandhuAsokan/salon-frontend/internal/booking"
	"github.com/AnandhuAsokan/salon-frontend/internal/events"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// startBooking opens a workflow for the chosen service.
func (b *Bot) startBooking(chatID, userID int64, serviceID string) {
	if !b.session.Authenticated() {
		b.reply(chatID, "Please /login first.")
		return
	}
	var service *models.Service
	for i := range b.services {
		if b.services[i].ID == serviceID {
			service = &b.services[i]
			break
		}
	}
	if service == nil {
		b.reply(chatID, "Service not found. Try /services again.")
		return
	}

	w := b.workflows.Reset(userID)
	w.Start(*service)

	msg := newDatePromptMessage(chatID, service, b.opts.MaxAdvanceDays)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("send failed")
	}
}

// chooseDate records a date pick; slots and any previous selection are
// cleared together inside the workflow.
func (b *Bot) chooseDate(chatID, userID int64, date string) {
	w := b.workflows.GetOrCreate(userID)
	if err := w.ChooseDate(date); err != nil {
		if errors.Is(err, booking.ErrBusy) {
			b.reply(chatID, "Still checking availability, one moment.")
		}
		return
	}
	snap := w.Snapshot()
	if snap.Service == nil {
		b.reply(chatID, "Pick a service first with /services.")
		return
	}
	b.reply(chatID, "Date "+date+" picked. Confirm to check availability.")
	b.sendConfirmDateKeyboard(chatID)
}

// confirmDate fetches per-staff availability for the picked date.
func (b *Bot) confirmDate(ctx context.Context, chatID, userID int64) {
	w := b.workflows.GetOrCreate(userID)
	err := w.ConfirmDate(ctx, b.client)
	switch {
	case errors.Is(err, booking.ErrBusy):
		b.reply(chatID, "Still checking availability, one moment.")
		return
	case errors.Is(err, booking.ErrNoDate):
		b.reply(chatID, "Pick a date first.")
		return
	}

	snap := w.Snapshot()
	if snap.State == booking.StateSlotsError {
		b.reply(chatID, snap.LastError)
		return
	}
	if len(snap.Slots) == 0 {
		// Valid, displayable outcome, not an error.
		b.reply(chatID, "No staff available on "+snap.Date+". Pick another date.")
		b.sendCalendar(chatID, snap.Service)
		return
	}
	b.sendSlots(chatID, snap)
}

// selectSlot stores the single current selection. Data format: staffID|slot.
func (b *Bot) selectSlot(chatID, userID int64, data string) {
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 {
		return
	}
	w := b.workflows.GetOrCreate(userID)
	if !w.SelectSlot(parts[0], parts[1]) {
		b.reply(chatID, "That slot is no longer offered. Pick one from the list.")
		return
	}
	snap := w.Snapshot()
	b.sendSelectionSummary(chatID, snap)
}

// confirmBooking submits the booking and runs the confirmation sequence:
// celebratory cue, short pause, acknowledgment, close.
func (b *Bot) confirmBooking(ctx context.Context, chatID, userID int64) {
	w := b.workflows.GetOrCreate(userID)
	booked, err := w.ConfirmBooking(ctx, b.client)
	if errors.Is(err, booking.ErrBusy) {
		b.reply(chatID, "Processing, one moment.")
		return
	}
	if err != nil {
		// The workflow is back in the slot-selected state; the user can
		// retry without repeating earlier steps.
		b.reply(chatID, w.Snapshot().LastError)
		return
	}
	if booked == nil {
		// No selection or no service: nothing was sent.
		return
	}

	b.reply(chatID, "🎉🎉🎉")
	time.Sleep(b.opts.ConfirmAckDelay)
	b.reply(chatID, "Booking Confirmed Successfully!")

	b.publish(events.BookingConfirmed, booked)
	w.Close()
}

// cancelBooking flips one history entry to cancelled and re-renders.
func (b *Bot) cancelBooking(ctx context.Context, chatID int64, bookingID string) {
	cancelled, err := b.client.UpdateBookingStatus(ctx, bookingID, models.BookingCancelled)
	if err != nil {
		b.reply(chatID, "Failed to cancel booking.")
		return
	}
	b.reply(chatID, "Booking cancelled successfully.")
	b.publish(events.BookingCancelled, cancelled)
	b.showHistory(ctx, chatID, "")
}
