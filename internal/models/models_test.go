package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasSlot(t *testing.T) {
	a := StaffAvailability{StaffID: "st-1", Slots: []string{"10:00", "10:30", "14:00"}}
	assert.True(t, a.HasSlot("10:30"))
	assert.False(t, a.HasSlot("11:00"))
	assert.False(t, (&StaffAvailability{}).HasSlot("10:00"))
}

func TestBookingIsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{BookingPending, true},
		{BookingConfirmed, true},
		{BookingCompleted, false},
		{BookingCancelled, false},
		{"", false},
	}
	for _, tt := range tests {
		b := Booking{Status: tt.status}
		assert.Equal(t, tt.want, b.IsActive(), "status %q", tt.status)
		assert.Equal(t, tt.want, b.CanCancel(), "status %q", tt.status)
	}
}

func TestFilterBookingsByStatus(t *testing.T) {
	bookings := []Booking{
		{ID: "1", Status: BookingPending},
		{ID: "2", Status: BookingConfirmed},
		{ID: "3", Status: BookingPending},
		{ID: "4", Status: BookingCancelled},
	}

	all := FilterBookingsByStatus(bookings, "")
	assert.Len(t, all, 4, "empty status means no constraint")

	pending := FilterBookingsByStatus(bookings, BookingPending)
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].ID)
	assert.Equal(t, "3", pending[1].ID, "order preserved")

	assert.Empty(t, FilterBookingsByStatus(bookings, BookingCompleted))
}

func TestValidTodoStatus(t *testing.T) {
	assert.True(t, ValidTodoStatus(TodoPending))
	assert.True(t, ValidTodoStatus(TodoCompleted))
	assert.True(t, ValidTodoStatus(TodoOnHold))
	assert.False(t, ValidTodoStatus("done"))
	assert.False(t, ValidTodoStatus(""))
}

func TestStaffAverageRating(t *testing.T) {
	assert.Zero(t, (&Staff{}).AverageRating())
	s := Staff{Ratings: []float64{4, 5, 3}}
	assert.InDelta(t, 4.0, s.AverageRating(), 0.001)
}

func TestBookingUnmarshalPopulatedRefs(t *testing.T) {
	raw := `{
		"_id": "bk-1",
		"serviceId": {"name": "Deluxe Facial", "price": 40},
		"staffId": {"name": "Maya"},
		"date": "2026-09-02",
		"startTime": "10:30",
		"endTime": "11:15",
		"status": "pending",
		"amount": 40
	}`
	var b Booking
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "bk-1", b.ID)
	assert.Equal(t, "Deluxe Facial", b.Service.Name)
	assert.Equal(t, 40.0, b.Service.Price)
	assert.Equal(t, "Maya", b.Staff.Name)
	assert.True(t, b.IsActive())
}

func TestServiceUnmarshal(t *testing.T) {
	raw := `{"_id":"svc-1","name":"Deluxe Facial","price":40,"duration":45,"isActive":true,"idealFor":"All skin types"}`
	var s Service
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, "svc-1", s.ID)
	assert.Equal(t, 45, s.Duration)
	assert.True(t, s.IsActive)
}
