// Package models holds the client-side copies of server-owned entities.
// Everything here is fetched on demand and disposable; the server is the
// source of truth for all of it.
package models

import "time"

// Booking statuses as the backend reports them.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Todo statuses.
const (
	TodoPending   = "pending"
	TodoCompleted = "completed"
	TodoOnHold    = "on-hold"
)

// User is the authenticated identity returned by the login endpoint.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Service is a bookable catalog entry. Created and edited only by an
// administrator; the client never mutates one in place.
type Service struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	IdealFor    string  `json:"idealFor"`
	IsActive    bool    `json:"isActive"`
}

// StaffAvailability is the per-staff slot set returned for one queried date.
// It is produced fresh on every date confirmation and never merged across
// requests.
type StaffAvailability struct {
	StaffID string   `json:"staffId"`
	Name    string   `json:"name"`
	Date    string   `json:"date"` // YYYY-MM-DD
	Slots   []string `json:"slots"`
}

// HasSlot reports whether the given time label is present in the set.
func (a *StaffAvailability) HasSlot(slot string) bool {
	for _, s := range a.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotSelection is the user's single current pick inside a booking workflow.
// It is valid only against the availability set it was chosen from.
type SlotSelection struct {
	StaffID   string
	StaffName string
	TimeSlot  string
	Date      string
}

// Staff is an administrator-facing staff record.
type Staff struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Age      int       `json:"age"`
	Gender   string    `json:"gender"`
	Status   string    `json:"status"`
	Ratings  []float64 `json:"ratings"`
	Reviews  []string  `json:"reviews"`
	Services []Service `json:"services"`
}

// AverageRating returns the mean of the staff ratings, 0 when unrated.
func (s *Staff) AverageRating() float64 {
	if len(s.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.Ratings {
		sum += r
	}
	return sum / float64(len(s.Ratings))
}

// BookingRef is the populated reference shape the history endpoint returns
// for the service and staff of a booking.
type BookingRef struct {
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// Booking is a created appointment. Status changes only through explicit
// status-update calls; the client never infers one.
type Booking struct {
	ID         string     `json:"_id"`
	Service    BookingRef `json:"serviceId"`
	Staff      BookingRef `json:"staffId"`
	ClientName string     `json:"clientName,omitempty"`
	Date       string     `json:"date"` // YYYY-MM-DD
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	Status     string     `json:"status"`
	Amount     float64    `json:"amount"`
}

// IsActive reports whether the booking still occupies a slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanCancel reports whether a cancel action makes sense for the booking.
func (b *Booking) CanCancel() bool {
	return b.IsActive()
}

// Todo is a task owned by the signed-in user. Ownership is enforced by the
// server via the session, never client-side.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidTodoStatus reports whether s is one of the statuses the backend accepts.
func ValidTodoStatus(s string) bool {
	switch s {
	case TodoPending, TodoCompleted, TodoOnHold:
		return true
	}
	return false
}

// FilterBookingsByStatus returns the bookings matching status; an empty
// status means no constraint. Order is preserved.
func FilterBookingsByStatus(bookings []Booking, status string) []Booking {
	if status == "" {
		return bookings
	}
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}
