package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

type fakeClient struct {
	mu       sync.Mutex
	slots    []models.StaffAvailability
	slotsErr error
	booked   *models.Booking
	bookErr  error

	slotCalls  []string // "serviceID|date"
	bookCalls  []api.CreateBookingRequest
	onStaffReq func() // runs before StaffSlots returns, for interleaving
}

func (f *fakeClient) StaffSlots(_ context.Context, serviceID, date string) ([]models.StaffAvailability, error) {
	f.mu.Lock()
	f.slotCalls = append(f.slotCalls, serviceID+"|"+date)
	hook := f.onStaffReq
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.slots, f.slotsErr
}

func (f *fakeClient) CreateBooking(_ context.Context, req api.CreateBookingRequest) (*models.Booking, error) {
	f.mu.Lock()
	f.bookCalls = append(f.bookCalls, req)
	f.mu.Unlock()
	return f.booked, f.bookErr
}

func testService() models.Service {
	return models.Service{
		ID:       "svc-1",
		Name:     "Deluxe Facial",
		Price:    40,
		Duration: 45,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateDateSelecting, true},
		{StateDateSelecting, StateSlotsLoading, true},
		{StateSlotsLoading, StateSlotsReady, true},
		{StateSlotsLoading, StateSlotsError, true},
		{StateSlotsReady, StateSelecting, true},
		{StateSelecting, StateBooking, true},
		{StateBooking, StateConfirmed, true},
		{StateBooking, StateSelecting, true},
		{StateConfirmed, StateIdle, true},
		{StateSlotsLoading, StateDateSelecting, true},
		{StateBooking, StateDateSelecting, true},
		{StateConfirmed, StateDateSelecting, true},
		{StateIdle, StateConfirmed, false},
		{StateSlotsReady, StateBooking, false},
		{StateConfirmed, StateBooking, false},
		{StateSlotsError, StateSelecting, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOperationsFollowTransitionGraph(t *testing.T) {
	client := &fakeClient{}
	w := New()

	// Nothing is selectable or bookable before slots are fetched.
	assert.False(t, w.SelectSlot("st-1", "10:00"))
	w.Start(testService())
	assert.False(t, w.SelectSlot("st-1", "10:00"))
	booked, err := w.ConfirmBooking(context.Background(), client)
	assert.NoError(t, err)
	assert.Nil(t, booked)
	assert.Empty(t, client.bookCalls)

	client.slots = []models.StaffAvailability{
		{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00"}},
	}
	require.NoError(t, w.ChooseDate("2026-09-02"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	assert.Equal(t, StateSlotsReady, w.State())

	// A second confirm is a no-op outside DateSelecting and SlotsError.
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	assert.Len(t, client.slotCalls, 1)

	// Close applies only after confirmation.
	w.Close()
	assert.Equal(t, StateSlotsReady, w.State())
	require.NotNil(t, w.Snapshot().Service)
}

func TestWorkflowHappyPath(t *testing.T) {
	client := &fakeClient{
		slots: []models.StaffAvailability{
			{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00", "10:30"}},
		},
		booked: &models.Booking{ID: "bk-1", Status: models.BookingPending},
	}

	w := New()
	assert.Equal(t, StateIdle, w.State())

	w.Start(testService())
	assert.Equal(t, StateDateSelecting, w.State())

	require.NoError(t, w.ChooseDate("2026-09-02"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	assert.Equal(t, StateSlotsReady, w.State())
	assert.Equal(t, []string{"svc-1|2026-09-02"}, client.slotCalls)

	require.True(t, w.SelectSlot("st-1", "10:30"))
	assert.Equal(t, StateSelecting, w.State())

	booked, err := w.ConfirmBooking(context.Background(), client)
	require.NoError(t, err)
	require.NotNil(t, booked)
	assert.Equal(t, "bk-1", booked.ID)
	assert.Equal(t, StateConfirmed, w.State())

	require.Len(t, client.bookCalls, 1)
	assert.Equal(t, api.CreateBookingRequest{
		ServiceID: "svc-1",
		StaffID:   "st-1",
		Date:      "2026-09-02",
		Slot:      "10:30",
	}, client.bookCalls[0])

	w.Close()
	assert.Equal(t, StateIdle, w.State())
	snap := w.Snapshot()
	assert.Nil(t, snap.Service)
	assert.Nil(t, snap.Selection)
	assert.Empty(t, snap.Date)
}

func TestConfirmDateWithoutDate(t *testing.T) {
	w := New()
	w.Start(testService())
	err := w.ConfirmDate(context.Background(), &fakeClient{})
	assert.ErrorIs(t, err, ErrNoDate)
}

func TestConfirmDateEmptySlotsIsReady(t *testing.T) {
	client := &fakeClient{slots: nil}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-05"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))

	snap := w.Snapshot()
	assert.Equal(t, StateSlotsReady, snap.State)
	assert.Empty(t, snap.Slots)
	assert.Empty(t, snap.LastError)
}

func TestConfirmDateErrorKeepsDate(t *testing.T) {
	client := &fakeClient{slotsErr: &api.APIError{Status: 500, Message: "upstream down"}}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-05"))
	err := w.ConfirmDate(context.Background(), client)
	require.Error(t, err)

	snap := w.Snapshot()
	assert.Equal(t, StateSlotsError, snap.State)
	assert.Equal(t, "upstream down", snap.LastError)
	assert.Equal(t, "2026-09-05", snap.Date)

	// Retry from the error state goes back through loading.
	client.slotsErr = nil
	client.slots = []models.StaffAvailability{{StaffID: "st-2", Name: "Lena", Date: "2026-09-05", Slots: []string{"12:00"}}}
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	assert.Equal(t, StateSlotsReady, w.State())
}

func TestChooseDateClearsSlotsAndSelection(t *testing.T) {
	client := &fakeClient{
		slots: []models.StaffAvailability{
			{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00"}},
		},
	}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	require.True(t, w.SelectSlot("st-1", "10:00"))

	require.NoError(t, w.ChooseDate("2026-09-03"))

	snap := w.Snapshot()
	assert.Equal(t, StateDateSelecting, snap.State)
	assert.Nil(t, snap.Slots)
	assert.Nil(t, snap.Selection)
	assert.Equal(t, "2026-09-03", snap.Date)
}

func TestSelectSlotValidation(t *testing.T) {
	client := &fakeClient{
		slots: []models.StaffAvailability{
			{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00", "10:30"}},
			{StaffID: "st-2", Name: "Lena", Date: "2026-09-02", Slots: []string{"11:00"}},
		},
	}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))

	assert.False(t, w.SelectSlot("st-1", "11:00"), "slot belongs to another staff member")
	assert.False(t, w.SelectSlot("st-9", "10:00"), "unknown staff")

	require.True(t, w.SelectSlot("st-1", "10:00"))
	require.True(t, w.SelectSlot("st-2", "11:00"), "re-selecting overwrites")

	snap := w.Snapshot()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, "st-2", snap.Selection.StaffID)
	assert.Equal(t, "11:00", snap.Selection.TimeSlot)
	assert.Equal(t, "Lena", snap.Selection.StaffName)
}

func TestConfirmBookingWithoutSelectionIsNoop(t *testing.T) {
	client := &fakeClient{}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))

	booked, err := w.ConfirmBooking(context.Background(), client)
	assert.NoError(t, err)
	assert.Nil(t, booked)
	assert.Empty(t, client.bookCalls, "no request may be issued without a selection")
}

func TestConfirmBookingFailureReturnsToSelecting(t *testing.T) {
	client := &fakeClient{
		slots: []models.StaffAvailability{
			{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00"}},
		},
		bookErr: errors.New("connection reset"),
	}
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	require.True(t, w.SelectSlot("st-1", "10:00"))

	booked, err := w.ConfirmBooking(context.Background(), client)
	require.Error(t, err)
	assert.Nil(t, booked)

	snap := w.Snapshot()
	assert.Equal(t, StateSelecting, snap.State)
	assert.Equal(t, "Booking failed. Please try again.", snap.LastError)
	require.NotNil(t, snap.Selection, "selection survives a failed submit")

	// Retry without redoing earlier steps.
	client.bookErr = nil
	client.booked = &models.Booking{ID: "bk-2"}
	booked, err = w.ConfirmBooking(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "bk-2", booked.ID)
}

func TestStaleSlotsDiscardedAfterRestart(t *testing.T) {
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))

	client := &fakeClient{
		slots: []models.StaffAvailability{
			{StaffID: "st-1", Name: "Maya", Date: "2026-09-02", Slots: []string{"10:00"}},
		},
	}
	// The user opens a different service while the fetch is mid-flight.
	client.onStaffReq = func() {
		w.Start(models.Service{ID: "svc-2", Name: "Classic Manicure"})
	}

	require.NoError(t, w.ConfirmDate(context.Background(), client))

	snap := w.Snapshot()
	assert.Equal(t, StateDateSelecting, snap.State, "stale result must not land")
	assert.Nil(t, snap.Slots)
	assert.Equal(t, "svc-2", snap.Service.ID)
}

func TestBusyRejectsConcurrentActions(t *testing.T) {
	w := New()
	w.Start(testService())
	require.NoError(t, w.ChooseDate("2026-09-02"))

	client := &fakeClient{}
	client.onStaffReq = func() {
		assert.ErrorIs(t, w.ChooseDate("2026-09-09"), ErrBusy)
		assert.ErrorIs(t, w.ConfirmDate(context.Background(), client), ErrBusy)
	}
	require.NoError(t, w.ConfirmDate(context.Background(), client))
	assert.Len(t, client.slotCalls, 1)
}

func TestWorkflowStore(t *testing.T) {
	store := NewWorkflowStore(0) // zero timeout falls back to the default

	w1 := store.GetOrCreate(100)
	w2 := store.GetOrCreate(100)
	assert.Same(t, w1, w2)

	w3 := store.GetOrCreate(200)
	assert.NotSame(t, w1, w3)

	store.Reset(100)
	w4 := store.GetOrCreate(100)
	assert.NotSame(t, w1, w4)

	store.Delete(200)
	assert.Nil(t, store.Get(200))
}
