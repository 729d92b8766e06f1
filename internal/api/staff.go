package api

import (
	"context"
	"net/url"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// ListStaff fetches all staff records (admin).
func (c *Client) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var wrap struct {
		Data []models.Staff `json:"data"`
	}
	if err := c.doGet(ctx, "/staff/", &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}

// StaffForService fetches the staff members offering a service.
func (c *Client) StaffForService(ctx context.Context, serviceID string) ([]models.Staff, error) {
	var wrap struct {
		Data []models.Staff `json:"data"`
	}
	if err := c.doGet(ctx, "/staff/staff/"+url.PathEscape(serviceID), &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}

// StaffInput carries the writable fields of a staff record.
type StaffInput struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

// CreateStaff adds a staff member (admin).
func (c *Client) CreateStaff(ctx context.Context, in StaffInput) (*models.Staff, error) {
	var out models.Staff
	if err := c.doJSON(ctx, "POST", "/staff/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStaff replaces a staff record (admin).
func (c *Client) UpdateStaff(ctx context.Context, id string, in StaffInput) (*models.Staff, error) {
	var out models.Staff
	if err := c.doJSON(ctx, "PUT", "/staff/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetHoliday marks a salon-wide holiday (admin).
func (c *Client) SetHoliday(ctx context.Context, date string) error {
	body := struct {
		Date string `json:"date"`
	}{Date: date}
	return c.doJSON(ctx, "POST", "/staff/holiday", body, nil)
}

// SetWeeklyOff sets the weekly closed day (admin).
func (c *Client) SetWeeklyOff(ctx context.Context, weekday string) error {
	body := struct {
		Weekday string `json:"weekday"`
	}{Weekday: weekday}
	return c.doJSON(ctx, "POST", "/staff/weekly-off", body, nil)
}

// SetWorkingHours sets the salon working-hours window (admin).
func (c *Client) SetWorkingHours(ctx context.Context, startTime, endTime string) error {
	body := struct {
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}{StartTime: startTime, EndTime: endTime}
	return c.doJSON(ctx, "POST", "/staff/working-hours", body, nil)
}
