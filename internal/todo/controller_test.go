package todo

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

type listCall struct {
	filters api.TodoFilters
	skip    int
	limit   int
}

type fakeClient struct {
	mu       sync.Mutex
	response json.RawMessage
	listErr  error
	lists    []listCall
	deleted  []string
	created  int
	updated  []string
	onList   func(call int) json.RawMessage // per-call override
}

func (f *fakeClient) ListTodos(_ context.Context, filters api.TodoFilters, skip, limit int) (json.RawMessage, error) {
	f.mu.Lock()
	f.lists = append(f.lists, listCall{filters: filters, skip: skip, limit: limit})
	n := len(f.lists)
	hook := f.onList
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if hook != nil {
		return hook(n), nil
	}
	return f.response, nil
}

func (f *fakeClient) CreateTodo(context.Context, string, string) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return &models.Todo{ID: "t-new"}, nil
}

func (f *fakeClient) UpdateTodo(_ context.Context, id string, _ api.TodoInput) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	return &models.Todo{ID: id}, nil
}

func (f *fakeClient) DeleteTodo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func rawTodos(n int) json.RawMessage {
	todos := make([]models.Todo, n)
	for i := range todos {
		todos[i] = models.Todo{ID: "t", Title: "task"}
	}
	data, _ := json.Marshal(todos)
	return data
}

func TestValidPageSize(t *testing.T) {
	for _, n := range PageSizes {
		assert.True(t, ValidPageSize(n))
	}
	assert.False(t, ValidPageSize(0))
	assert.False(t, ValidPageSize(7))
	assert.False(t, ValidPageSize(100))
}

func TestFetchOffsetMath(t *testing.T) {
	client := &fakeClient{response: rawTodos(3)}
	c := NewController(client)

	require.NoError(t, c.SetPage(context.Background(), 3))
	require.Len(t, client.lists, 1)
	assert.Equal(t, 20, client.lists[0].skip)
	assert.Equal(t, 10, client.lists[0].limit)

	require.NoError(t, c.SetPageSize(context.Background(), 25))
	require.Len(t, client.lists, 2)
	assert.Equal(t, 0, client.lists[1].skip, "size change rewinds to page 1")
	assert.Equal(t, 25, client.lists[1].limit)
}

func TestSetPageSizeInvalidIgnored(t *testing.T) {
	client := &fakeClient{response: rawTodos(2)}
	c := NewController(client)
	require.NoError(t, c.SetPageSize(context.Background(), 13))
	assert.Equal(t, DefaultPageSize, c.View().PageSize)
}

func TestSetFiltersRewindsToPageOne(t *testing.T) {
	client := &fakeClient{response: rawTodos(1)}
	c := NewController(client)
	require.NoError(t, c.SetPage(context.Background(), 4))

	filters := api.TodoFilters{Status: models.TodoPending, Date: "2026-09-01"}
	require.NoError(t, c.SetFilters(context.Background(), filters))

	v := c.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, filters, v.Filters)
	last := client.lists[len(client.lists)-1]
	assert.Equal(t, 0, last.skip)
	assert.Equal(t, filters, last.filters)
}

func TestNormalizeStructWithTotal(t *testing.T) {
	raw := json.RawMessage(`{"todos":[{"id":"a","title":"one"}],"total":42}`)
	todos, total, est := normalize(raw, 0, 1, 10)
	require.Len(t, todos, 1)
	assert.Equal(t, 42, total)
	assert.False(t, est)
}

func TestNormalizeStructWithoutTotal(t *testing.T) {
	raw := json.RawMessage(`{"todos":[{"id":"a","title":"one"},{"id":"b","title":"two"}]}`)
	todos, total, est := normalize(raw, 10, 2, 10)
	require.Len(t, todos, 2)
	assert.Equal(t, 12, total, "short page pins the total exactly")
	assert.True(t, est)
}

func TestNormalizeBareArray(t *testing.T) {
	todos, total, est := normalize(rawTodos(5), 0, 1, 5)
	require.Len(t, todos, 5)
	assert.Equal(t, 6, total, "full page means at least one more item")
	assert.True(t, est)
}

func TestNormalizeKeyedObject(t *testing.T) {
	raw := json.RawMessage(`{
		"abc": {"id":"abc","title":"wash towels","status":"pending"},
		"def": {"id":"def","title":"order supplies","status":"completed"},
		"meta": {"version": 3}
	}`)
	todos, total, est := normalize(raw, 0, 1, 10)
	require.Len(t, todos, 2, "non-todo values are filtered out")
	assert.Equal(t, 2, total)
	assert.True(t, est)
}

func TestNormalizeGarbage(t *testing.T) {
	todos, total, est := normalize(json.RawMessage(`"nope"`), 0, 1, 10)
	assert.Nil(t, todos)
	assert.Zero(t, total)
	assert.False(t, est)
}

func TestEstimateTotal(t *testing.T) {
	tests := []struct {
		name                       string
		returned, skip, page, size int
		want                       int
	}{
		{"short page is exact", 7, 10, 2, 10, 17},
		{"empty page is exact", 0, 20, 3, 10, 20},
		{"full page is a lower bound", 10, 10, 2, 10, 21},
		{"full first page", 5, 0, 1, 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimateTotal(tt.returned, tt.skip, tt.page, tt.size))
		})
	}
}

func TestFetchErrorCollapsesTotals(t *testing.T) {
	client := &fakeClient{response: rawTodos(10)}
	c := NewController(client)
	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 11, c.View().Total)

	client.listErr = &api.APIError{Status: 500, Message: "boom"}
	err := c.Fetch(context.Background())
	require.Error(t, err)

	v := c.View()
	assert.Nil(t, v.Todos)
	assert.Zero(t, v.Total)
	assert.False(t, v.TotalEst)
	assert.Equal(t, "boom", v.LastError)
	assert.Zero(t, v.TotalPages())
}

func TestFetchErrorFallbackMessage(t *testing.T) {
	client := &fakeClient{listErr: errors.New("dial tcp: timeout")}
	c := NewController(client)
	require.Error(t, c.Fetch(context.Background()))
	assert.Equal(t, "Failed to fetch todos.", c.View().LastError)
}

func TestDeleteLastItemOnLaterPageStepsBack(t *testing.T) {
	client := &fakeClient{}
	client.onList = func(call int) json.RawMessage {
		if call == 1 {
			return rawTodos(1) // page 2 holds a single item
		}
		return rawTodos(10)
	}
	c := NewController(client)
	require.NoError(t, c.SetPage(context.Background(), 2))
	require.Len(t, c.View().Todos, 1)

	require.NoError(t, c.Delete(context.Background(), "t-last"))
	assert.Equal(t, []string{"t-last"}, client.deleted)
	assert.Equal(t, 1, c.View().Page, "deleting the page's only item steps back")
	last := client.lists[len(client.lists)-1]
	assert.Equal(t, 0, last.skip)
}

func TestDeleteOnFirstPageStaysPut(t *testing.T) {
	client := &fakeClient{response: rawTodos(1)}
	c := NewController(client)
	require.NoError(t, c.Fetch(context.Background()))
	require.NoError(t, c.Delete(context.Background(), "t-1"))
	assert.Equal(t, 1, c.View().Page)
}

func TestCreateRewindsToPageOne(t *testing.T) {
	client := &fakeClient{response: rawTodos(3)}
	c := NewController(client)
	require.NoError(t, c.SetPage(context.Background(), 5))

	require.NoError(t, c.Create(context.Background(), "new task", "details"))
	assert.Equal(t, 1, client.created)
	assert.Equal(t, 1, c.View().Page)
}

func TestUpdateRefetchesCurrentPage(t *testing.T) {
	client := &fakeClient{response: rawTodos(3)}
	c := NewController(client)
	require.NoError(t, c.SetPage(context.Background(), 2))

	require.NoError(t, c.Update(context.Background(), "t-7", api.TodoInput{Title: "x", Status: models.TodoCompleted}))
	assert.Equal(t, []string{"t-7"}, client.updated)
	assert.Equal(t, 2, c.View().Page)
	last := client.lists[len(client.lists)-1]
	assert.Equal(t, 10, last.skip)
}

func TestInterleavedFetchesLastRequestWins(t *testing.T) {
	client := &fakeClient{}
	c := NewController(client)

	client.onList = func(call int) json.RawMessage {
		if call == 1 {
			// A second fetch fires while the first is still in flight.
			client.mu.Lock()
			client.onList = func(int) json.RawMessage { return rawTodos(2) }
			client.mu.Unlock()
			require.NoError(t, c.Fetch(context.Background()))
			return rawTodos(10)
		}
		return rawTodos(2)
	}

	require.NoError(t, c.Fetch(context.Background()))
	assert.Len(t, c.View().Todos, 2, "the earlier response must be discarded")
}

func TestViewTotalPages(t *testing.T) {
	assert.Equal(t, 0, View{Total: 0, PageSize: 10}.TotalPages())
	assert.Equal(t, 1, View{Total: 10, PageSize: 10}.TotalPages())
	assert.Equal(t, 2, View{Total: 11, PageSize: 10}.TotalPages())
	assert.Equal(t, 0, View{Total: 5, PageSize: 0}.TotalPages())
}
