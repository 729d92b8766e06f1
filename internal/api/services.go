package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// ListServices fetches the service catalog. Reads go through the optional
// Redis cache; mutations elsewhere never touch it, the TTL bounds staleness.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	const cacheKey = "services"
	var wrap struct {
		Data []models.Service `json:"data"`
	}

	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Data, nil
	}

	if err := c.doGet(ctx, "/services", &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Data, nil
}

// StaffSlotsRequest is the body for POST /services/staff-slots.
type StaffSlotsRequest struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// StaffSlots queries per-staff availability for a service on a date. The
// result is always fresh; the caller replaces any previous set wholesale.
func (c *Client) StaffSlots(ctx context.Context, serviceID, date string) ([]models.StaffAvailability, error) {
	var wrap struct {
		Data []models.StaffAvailability `json:"data"`
	}
	req := StaffSlotsRequest{ServiceID: serviceID, Date: date}
	if err := c.doJSON(ctx, "POST", "/services/staff-slots", req, &wrap); err != nil {
		return nil, err
	}
	return wrap.Data, nil
}

// ServiceInput carries the editable fields of a service for admin saves.
type ServiceInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	IdealFor    string  `json:"idealFor"`
}

// CreateService creates a catalog entry (admin).
func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	var out models.Service
	if err := c.doJSON(ctx, "POST", "/services/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateService replaces a catalog entry (admin).
func (c *Client) UpdateService(ctx context.Context, id string, in ServiceInput) (*models.Service, error) {
	var out models.Service
	if err := c.doJSON(ctx, "PUT", "/services/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetServiceActive toggles the active flag of a service (admin).
func (c *Client) SetServiceActive(ctx context.Context, id string, active bool) error {
	body := struct {
		IsActive bool `json:"isActive"`
	}{IsActive: active}
	return c.doJSON(ctx, "PATCH", fmt.Sprintf("/services/%s/status", url.PathEscape(id)), body, nil)
}
