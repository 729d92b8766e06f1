package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// TodoFilters are the optional list constraints. Empty means unconstrained.
type TodoFilters struct {
	Status string
	Date   string // YYYY-MM-DD
}

// ListTodos fetches one page of todos. The backend answers in one of three
// shapes, so the raw body is returned for the caller to normalize.
func (c *Client) ListTodos(ctx context.Context, filters TodoFilters, skip, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}
	if filters.Date != "" {
		q.Set("date", filters.Date)
	}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.doGet(ctx, "/todos?"+q.Encode(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// TodoInput carries the writable fields of a todo.
type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// CreateTodo creates a todo for the signed-in user.
func (c *Client) CreateTodo(ctx context.Context, title, description string) (*models.Todo, error) {
	var out models.Todo
	in := TodoInput{Title: title, Description: description}
	if err := c.doJSON(ctx, "POST", "/todos/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTodo replaces the full field set of a todo.
func (c *Client) UpdateTodo(ctx context.Context, id string, in TodoInput) (*models.Todo, error) {
	var out models.Todo
	if err := c.doJSON(ctx, "PUT", "/todos/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.doDelete(ctx, "/todos/"+url.PathEscape(id))
}
