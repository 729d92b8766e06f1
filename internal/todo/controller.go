// Package todo maintains a paginated, filterable view over the remote todo
// collection. Mutations never patch local state; each one re-fetches the
// current page from the server.
package todo

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/metrics"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// PageSizes are the only accepted page sizes.
var PageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 10

// ValidPageSize reports whether n is an accepted page size.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Client is what the controller needs from the HTTP adapter.
type Client interface {
	ListTodos(ctx context.Context, filters api.TodoFilters, skip, limit int) (json.RawMessage, error)
	CreateTodo(ctx context.Context, title, description string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, in api.TodoInput) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// View is a consistent read of the controller for rendering.
type View struct {
	Todos     []models.Todo
	Filters   api.TodoFilters
	Page      int
	PageSize  int
	Total     int
	TotalEst  bool // true when Total is the lower-bound estimate
	LastError string
}

// TotalPages derives the page count from the (possibly estimated) total.
func (v View) TotalPages() int {
	if v.Total <= 0 || v.PageSize <= 0 {
		return 0
	}
	return (v.Total + v.PageSize - 1) / v.PageSize
}

// Controller drives the todo list for one user.
type Controller struct {
	client Client

	mu        sync.Mutex
	filters   api.TodoFilters
	page      int
	pageSize  int
	todos     []models.Todo
	total     int
	totalEst  bool
	lastError string
	seq       uint64 // fences stale responses: only the latest fetch lands
}

// NewController creates a controller on page 1 with the default page size.
func NewController(client Client) *Controller {
	return &Controller{client: client, page: 1, pageSize: DefaultPageSize}
}

// View returns the current render state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Todos:     c.todos,
		Filters:   c.filters,
		Page:      c.page,
		PageSize:  c.pageSize,
		Total:     c.total,
		TotalEst:  c.totalEst,
		LastError: c.lastError,
	}
}

// SetFilters replaces the filter criteria and rewinds to page 1.
func (c *Controller) SetFilters(ctx context.Context, filters api.TodoFilters) error {
	c.mu.Lock()
	c.filters = filters
	c.page = 1
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetPage moves to the given 1-based page.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetPageSize switches the page size and rewinds to page 1. Sizes outside
// the accepted set are ignored.
func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	if !ValidPageSize(size) {
		return c.Fetch(ctx)
	}
	c.mu.Lock()
	c.pageSize = size
	c.page = 1
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// Fetch loads the current page. A response that is not the latest issued
// fetch is discarded, so interleaved fetches resolve last-request-wins.
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	mine := c.seq
	filters, page, size := c.filters, c.page, c.pageSize
	c.mu.Unlock()

	skip := (page - 1) * size
	raw, err := c.client.ListTodos(ctx, filters, skip, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	if mine != c.seq {
		return nil
	}
	if err != nil {
		// Total collapses to zero so pagination controls fold up instead of
		// showing stale page counts.
		c.todos = nil
		c.total = 0
		c.totalEst = false
		c.lastError = api.ErrorMessage(err, "Failed to fetch todos.")
		metrics.IncTodoFetch("error")
		return err
	}

	todos, total, estimated := normalize(raw, skip, page, size)
	c.todos = todos
	c.total = total
	c.totalEst = estimated
	c.lastError = ""
	metrics.IncTodoFetch("ok")
	return nil
}

// Create adds a todo, rewinds to page 1 and re-fetches.
func (c *Controller) Create(ctx context.Context, title, description string) error {
	if _, err := c.client.CreateTodo(ctx, title, description); err != nil {
		return err
	}
	c.mu.Lock()
	c.page = 1
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// Update replaces a todo's fields and re-fetches the current page.
func (c *Controller) Update(ctx context.Context, id string, in api.TodoInput) error {
	if _, err := c.client.UpdateTodo(ctx, id, in); err != nil {
		return err
	}
	return c.Fetch(ctx)
}

// Delete removes a todo. Deleting the last remaining item on a page beyond
// page 1 steps back one page before re-fetching, so the user never lands on
// an empty page while earlier pages still have content.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.client.DeleteTodo(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	if len(c.todos) == 1 && c.page > 1 {
		c.page--
	}
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// normalize folds the three backend response shapes into (list, total).
// Shapes: {todos, total}; a keyed object of todo-like values; a bare array.
// When the server omits the total it is estimated: a short page pins it to
// skip+len exactly, a full page yields page*size+1 — a lower bound signaling
// at least one more page, corrected on the next fetch.
func normalize(raw json.RawMessage, skip, page, size int) (todos []models.Todo, total int, estimated bool) {
	var withTotal struct {
		Todos []models.Todo `json:"todos"`
		Total *int          `json:"total"`
	}
	if err := json.Unmarshal(raw, &withTotal); err == nil && withTotal.Todos != nil {
		if withTotal.Total != nil {
			return withTotal.Todos, *withTotal.Total, false
		}
		return withTotal.Todos, estimateTotal(len(withTotal.Todos), skip, page, size), true
	}

	var list []models.Todo
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, estimateTotal(len(list), skip, page, size), true
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err == nil {
		todos = make([]models.Todo, 0, len(keyed))
		for _, v := range keyed {
			var t models.Todo
			if err := json.Unmarshal(v, &t); err == nil && t.Title != "" {
				todos = append(todos, t)
			}
		}
		return todos, estimateTotal(len(todos), skip, page, size), true
	}

	return nil, 0, false
}

func estimateTotal(returned, skip, page, size int) int {
	if returned < size {
		return skip + returned // last page: exact
	}
	return page*size + 1
}
