// Package booking implements the slot-selection workflow: date, per-staff
// availability, a single slot pick, final submission. The state machine is
// fully separated from rendering; the bot layer only reads snapshots and
// forwards user actions.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// State represents the current phase of the workflow.
type State string

const (
	StateIdle          State = "idle"
	StateDateSelecting State = "date_selecting"
	StateSlotsLoading  State = "slots_loading"
	StateSlotsReady    State = "slots_ready"
	StateSelecting     State = "selecting"
	StateBooking       State = "booking"
	StateConfirmed     State = "confirmed"
	StateSlotsError    State = "slots_error"
)

var (
	// ErrBusy means a fetch or submission is already in flight; slot queries
	// and booking submits are mutually exclusive by construction.
	ErrBusy = errors.New("request already in flight")
	// ErrNoDate means ConfirmDate was called without a chosen date.
	ErrNoDate = errors.New("no date chosen")
)

// transitions is the allowed state graph. DateSelecting is reachable from
// every state: Start and ChooseDate restart the flow and clear slots and
// selection together, which keeps the slot set and the selection consistent
// at all times.
var transitions = map[State][]State{
	StateIdle:          {StateDateSelecting},
	StateDateSelecting: {StateSlotsLoading, StateDateSelecting},
	StateSlotsLoading:  {StateSlotsReady, StateSlotsError, StateDateSelecting},
	StateSlotsReady:    {StateSelecting, StateDateSelecting},
	StateSelecting:     {StateSelecting, StateBooking, StateDateSelecting},
	StateBooking:       {StateConfirmed, StateSelecting, StateDateSelecting},
	StateSlotsError:    {StateDateSelecting, StateSlotsLoading},
	StateConfirmed:     {StateIdle, StateDateSelecting},
}

// CanTransition checks if a transition is allowed by the graph.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Client is what the workflow needs from the HTTP adapter.
type Client interface {
	StaffSlots(ctx context.Context, serviceID, date string) ([]models.StaffAvailability, error)
	CreateBooking(ctx context.Context, req api.CreateBookingRequest) (*models.Booking, error)
}

// Snapshot is a consistent read of the workflow for rendering.
type Snapshot struct {
	State     State
	Service   *models.Service
	Date      string
	Slots     []models.StaffAvailability
	Selection *models.SlotSelection
	LastError string
}

// Workflow is one user's booking dialog.
type Workflow struct {
	mu        sync.Mutex
	state     State
	service   *models.Service
	date      string
	slots     []models.StaffAvailability
	selection *models.SlotSelection
	lastError string
	busy      bool
	gen       uint64 // bumped on every reset; fences stale responses
	startedAt time.Time
	updatedAt time.Time
}

// New returns an idle workflow.
func New() *Workflow {
	now := time.Now()
	return &Workflow{state: StateIdle, startedAt: now, updatedAt: now}
}

// Snapshot returns the current view state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		State:     w.state,
		Service:   w.service,
		Date:      w.date,
		Slots:     w.slots,
		Selection: w.selection,
		LastError: w.lastError,
	}
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a request is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Start opens the workflow for a service, clearing date, slots and selection.
func (w *Workflow) Start(service models.Service) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.service = &service
	w.reset(StateDateSelecting)
}

// ChooseDate records a date pick. Allowed from any state while no request is
// in flight: slots and selection are cleared together so a stale slot can
// never be submitted against a new date. The date string itself is forwarded
// verbatim; the server is the source of truth for validity.
func (w *Workflow) ChooseDate(date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrBusy
	}
	w.date = date
	w.reset(StateDateSelecting)
	return nil
}

// transition moves to the next state when the graph allows it. Callers hold
// the lock.
func (w *Workflow) transition(to State) bool {
	if !CanTransition(w.state, to) {
		return false
	}
	w.state = to
	w.updatedAt = time.Now()
	return true
}

// reset clears slots, selection and error, bumps the fencing generation and
// moves to the given state. Callers hold the lock.
func (w *Workflow) reset(to State) {
	w.slots = nil
	w.selection = nil
	w.lastError = ""
	w.gen++
	w.transition(to)
}

// ConfirmDate fetches per-staff availability for the chosen date. An empty
// result is a valid SlotsReady state ("no staff available"), not an error.
func (w *Workflow) ConfirmDate(ctx context.Context, client Client) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if !CanTransition(w.state, StateSlotsLoading) {
		w.mu.Unlock()
		return nil
	}
	if w.date == "" || w.service == nil {
		w.mu.Unlock()
		return ErrNoDate
	}
	serviceID, date, gen := w.service.ID, w.date, w.gen
	w.busy = true
	w.transition(StateSlotsLoading)
	w.mu.Unlock()

	slots, err := client.StaffSlots(ctx, serviceID, date)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.gen != gen {
		// Date changed underneath the fetch; the result is stale.
		return nil
	}
	if err != nil {
		w.transition(StateSlotsError)
		w.lastError = api.ErrorMessage(err, "Failed to load slots.")
		return err
	}
	w.slots = slots
	w.lastError = ""
	w.transition(StateSlotsReady)
	return nil
}

// SelectSlot stores the single current selection. It succeeds only when the
// (staffID, slot) pair exists in the currently fetched availability set;
// selecting again overwrites the previous pick.
func (w *Workflow) SelectSlot(staffID, slot string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy || !CanTransition(w.state, StateSelecting) {
		return false
	}
	for i := range w.slots {
		avail := &w.slots[i]
		if avail.StaffID == staffID && avail.HasSlot(slot) {
			w.selection = &models.SlotSelection{
				StaffID:   staffID,
				StaffName: avail.Name,
				TimeSlot:  slot,
				Date:      avail.Date,
			}
			w.transition(StateSelecting)
			return true
		}
	}
	return false
}

// ConfirmBooking submits the booking. With no selection or no service it is a
// no-op: no request is issued. On failure the workflow returns to the
// slot-selected state so the user can retry without redoing earlier steps.
func (w *Workflow) ConfirmBooking(ctx context.Context, client Client) (*models.Booking, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.selection == nil || w.service == nil || !CanTransition(w.state, StateBooking) {
		w.mu.Unlock()
		return nil, nil
	}
	req := api.CreateBookingRequest{
		ServiceID: w.service.ID,
		StaffID:   w.selection.StaffID,
		Date:      w.selection.Date,
		Slot:      w.selection.TimeSlot,
	}
	gen := w.gen
	w.busy = true
	w.transition(StateBooking)
	w.mu.Unlock()

	booked, err := client.CreateBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.gen != gen {
		return nil, nil
	}
	if err != nil {
		w.transition(StateSelecting)
		w.lastError = api.ErrorMessage(err, "Booking failed. Please try again.")
		return nil, err
	}
	w.lastError = ""
	w.transition(StateConfirmed)
	return booked, nil
}

// Close returns the workflow to Idle after the confirmation acknowledgment.
// It applies only once the booking is confirmed; elsewhere in the flow the
// reset path is Start or the store's Reset.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !CanTransition(w.state, StateIdle) {
		return
	}
	w.service = nil
	w.date = ""
	w.reset(StateIdle)
}

// UpdatedAt returns the last activity time, used for session expiry.
func (w *Workflow) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}
