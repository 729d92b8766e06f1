package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AnandhuAsokan/salon-frontend/internal/metrics"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// CreateBookingRequest is the body for POST /bookings.
type CreateBookingRequest struct {
	ServiceID string `json:"serviceId"`
	StaffID   string `json:"staffId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Slot      string `json:"slot"` // time label from the availability set
}

// CreateBooking submits the final booking.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := c.doJSON(ctx, "POST", "/bookings", req, &out); err != nil {
		return nil, err
	}
	metrics.IncBookingCreated()
	return &out, nil
}

// ClientBookings fetches the signed-in customer's booking history.
func (c *Client) ClientBookings(ctx context.Context) ([]models.Booking, error) {
	var wrap struct {
		Data []models.Booking `json:"data"`
	}
	if err := c.doJSON(ctx, "POST", "/bookings/client", nil, &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}

// UpdateBookingStatus issues an explicit status change (cancel, complete).
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	var out models.Booking
	if err := c.doJSON(ctx, "PATCH", fmt.Sprintf("/bookings/%s/status", url.PathEscape(id)), body, &out); err != nil {
		return nil, err
	}
	if status == models.BookingCancelled {
		metrics.IncBookingCancelled()
	}
	return &out, nil
}

// ListBookings fetches all bookings (admin).
func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var wrap struct {
		Data []models.Booking `json:"data"`
	}
	if err := c.doGet(ctx, "/bookings/", &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}

// AnalyticsRequest bounds an admin analytics query.
type AnalyticsRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// BookingAnalytics holds aggregate figures the backend computes.
type BookingAnalytics struct {
	TotalBookings int     `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
	Completed     int     `json:"completed"`
	Cancelled     int     `json:"cancelled"`
}

// Analytics fetches booking aggregates for a period (admin).
func (c *Client) Analytics(ctx context.Context, startDate, endDate string) (*BookingAnalytics, error) {
	var out BookingAnalytics
	req := AnalyticsRequest{StartDate: startDate, EndDate: endDate}
	if err := c.doJSON(ctx, "POST", "/bookings/analytics", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PeakTime is one hour bucket of the peak-time report.
type PeakTime struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// PeakTimes fetches the busiest hours for a period (admin).
func (c *Client) PeakTimes(ctx context.Context, startDate, endDate string) ([]PeakTime, error) {
	var wrap struct {
		Data []PeakTime `json:"data"`
	}
	req := AnalyticsRequest{StartDate: startDate, EndDate: endDate}
	if err := c.doJSON(ctx, "POST", "/bookings/peak-time", req, &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}
