package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/app"
	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/testutil"
)

var testNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.Local)

func newTestServer(t *testing.T, gen domain.TextGenerator, tasks ...domain.Task) (*httptest.Server, *testutil.MockTaskRepository) {
	t.Helper()
	repo := testutil.NewMockTaskRepository(tasks...)
	c := app.NewWithDeps(app.Config{WorkDir: t.TempDir()}, nil, repo, &testutil.MockClock{NowTime: testNow}, gen)
	srv := httptest.NewServer(NewRouter(c))
	t.Cleanup(srv.Close)
	return srv, repo
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListTasks(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	srv, _ := newTestServer(t, nil,
		domain.Task{ID: 1, Text: "later", Date: day, Time: "18:00"},
		domain.Task{ID: 2, Text: "done", Date: day, Completed: true},
		domain.Task{ID: 3, Text: "early", Date: day, Time: "07:00"},
	)

	// Execute
	resp := do(t, http.MethodGet, srv.URL+"/api/tasks?filter=all", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[listResponse](t, resp)
	require.Len(t, got.Tasks, 3)
	assert.Equal(t, "early", got.Tasks[0].Text)
	assert.Equal(t, "later", got.Tasks[1].Text)
	assert.Equal(t, "done", got.Tasks[2].Text)
	assert.Equal(t, day, got.Date)
	assert.Equal(t, 2, got.Active)
	assert.Equal(t, 1, got.Completed)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestListTasks_BadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad date", "?date=16-10-2026"},
		{"bad filter", "?filter=someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			srv, _ := newTestServer(t, nil)

			// Execute
			resp := do(t, http.MethodGet, srv.URL+"/api/tasks"+tt.query, "")

			// Assert
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAddTask(t *testing.T) {
	// Setup
	srv, repo := newTestServer(t, nil)

	// Execute
	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"text":"Buy milk","date":"2026-10-20","time":"8:30"}`)

	// Assert
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[domain.Task](t, resp)
	assert.Equal(t, "Buy milk", task.Text)
	assert.Equal(t, testutil.Date(2026, 10, 20), task.Date)
	assert.Equal(t, "08:30", task.Time)
	assert.Len(t, repo.Stored(), 1)
}

func TestAddTask_EmptyTextIsNoContent(t *testing.T) {
	// Setup
	srv, repo := newTestServer(t, nil)

	// Execute
	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"text":"   "}`)

	// Assert
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, repo.ReplaceCount())
}

func TestAddTask_InvalidBody(t *testing.T) {
	// Setup
	srv, _ := newTestServer(t, nil)

	// Execute
	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"text":`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleEditDelete(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	srv, repo := newTestServer(t, nil, domain.Task{ID: 7, Text: "a", Date: day})

	// Execute + Assert: toggle
	resp := do(t, http.MethodPost, srv.URL+"/api/tasks/7/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[domain.Task](t, resp).Completed)

	// Execute + Assert: edit
	resp = do(t, http.MethodPatch, srv.URL+"/api/tasks/7", `{"text":"b","time":"10:00"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edited := decode[domain.Task](t, resp)
	assert.Equal(t, "b", edited.Text)
	assert.Equal(t, "10:00", edited.Time)
	assert.True(t, edited.Completed)

	// Execute + Assert: delete
	resp = do(t, http.MethodDelete, srv.URL+"/api/tasks/7", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, repo.Stored())
}

func TestUnknownTaskIsNotFound(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"toggle", http.MethodPost, "/api/tasks/99/toggle", ""},
		{"edit", http.MethodPatch, "/api/tasks/99", `{"text":"x"}`},
		{"delete", http.MethodDelete, "/api/tasks/99", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			srv, repo := newTestServer(t, nil, domain.Task{ID: 1, Text: "a", Date: testutil.Date(2026, 10, 16)})

			// Execute
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)

			// Assert
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Zero(t, repo.ReplaceCount())
		})
	}
}

func TestInvalidTaskID(t *testing.T) {
	// Setup
	srv, _ := newTestServer(t, nil)

	// Execute
	resp := do(t, http.MethodDelete, srv.URL+"/api/tasks/abc", "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearCompleted(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	srv, repo := newTestServer(t, nil,
		domain.Task{ID: 1, Text: "a", Date: day, Completed: true},
		domain.Task{ID: 2, Text: "b", Date: day},
	)

	// Execute
	resp := do(t, http.MethodPost, srv.URL+"/api/tasks/clear-completed", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"removed": 1}, decode[map[string]int](t, resp))
	assert.Len(t, repo.Stored(), 1)
}

func TestCalendar(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	srv, _ := newTestServer(t, nil,
		domain.Task{ID: 1, Text: "a", Date: day},
		domain.Task{ID: 2, Text: "b", Date: day},
		domain.Task{ID: 3, Text: "c", Date: day},
		domain.Task{ID: 4, Text: "d", Date: day},
	)

	// Execute
	resp := do(t, http.MethodGet, srv.URL+"/api/calendar/2026-10", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[calendarResponse](t, resp)
	assert.Equal(t, "2026-10", got.Month)
	assert.Equal(t, "October 2026", got.Title)
	assert.Equal(t, 4, got.Offset)
	require.Len(t, got.Days, 31)
	cell := got.Days[15]
	assert.Equal(t, 4, cell.Total)
	assert.Equal(t, 1, cell.Overflow)
	assert.Len(t, cell.Preview, domain.DefaultMaxPreview)
	assert.True(t, cell.IsToday)
}

func TestCalendar_BadMonth(t *testing.T) {
	// Setup
	srv, _ := newTestServer(t, nil)

	// Execute
	resp := do(t, http.MethodGet, srv.URL+"/api/calendar/2026-13", "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBrief(t *testing.T) {
	tests := []struct {
		gen          domain.TextGenerator
		name         string
		wantReminder domain.NarrationSource
		wantSummary  domain.NarrationSource
	}{
		{&testutil.MockGenerator{Text: "hi"}, "generator answers", domain.SourceAI, domain.SourceAI},
		{&testutil.MockGenerator{Err: errors.New("boom")}, "generator fails", domain.SourceFallback, domain.SourceFallback},
		{nil, "narration disabled", domain.SourceFallback, domain.SourceFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			srv, _ := newTestServer(t, tt.gen, domain.Task{ID: 1, Text: "a", Date: testutil.Date(2026, 10, 16)})

			// Execute
			resp := do(t, http.MethodGet, srv.URL+"/api/brief", "")

			// Assert
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decode[briefResponse](t, resp)
			assert.Equal(t, tt.wantReminder, got.Reminder.Source)
			assert.Equal(t, tt.wantSummary, got.Summary.Source)
			assert.NotEmpty(t, got.Reminder.Text)
		})
	}
}

func TestBrief_EmptyDay(t *testing.T) {
	// Setup
	gen := &testutil.MockGenerator{Text: "hi"}
	srv, _ := newTestServer(t, gen)

	// Execute
	resp := do(t, http.MethodGet, srv.URL+"/api/brief?date=2026-10-01", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[briefResponse](t, resp)
	assert.Equal(t, domain.Narration{Text: domain.EmptyDayMessage, Source: domain.SourceEmpty}, got.Reminder)
	assert.Equal(t, 1, gen.Calls(), "only the summary reaches the generator")
}

func TestMetrics(t *testing.T) {
	// Setup
	srv, _ := newTestServer(t, nil)
	_ = do(t, http.MethodPost, srv.URL+"/api/tasks", `{"text":"a"}`)

	// Execute
	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := new(strings.Builder)
	_, err := io.Copy(body, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `daybook_task_mutations_total{op="add",result="applied"} 1`)
	assert.Contains(t, body.String(), "daybook_tasks 1")
}

func TestRequestIDIsEchoed(t *testing.T) {
	// Setup
	srv, _ := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	// Execute
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
