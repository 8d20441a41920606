// Package server exposes the task store over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daybook-app/daybook/internal/app"
	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the API routes on top of the container's use cases.
func NewRouter(c *app.Container) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(c.SlogLogger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", listTasksHandler(c))
		r.Post("/tasks", addTaskHandler(c))
		r.Post("/tasks/clear-completed", clearCompletedHandler(c))
		r.Post("/tasks/{id}/toggle", toggleTaskHandler(c))
		r.Patch("/tasks/{id}", editTaskHandler(c))
		r.Delete("/tasks/{id}", deleteTaskHandler(c))
		r.Get("/calendar/{month}", calendarHandler(c))
		r.Get("/brief", briefHandler(c))
	})
	r.Handle("/metrics", promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}))

	return r
}

// Run serves handler on addr until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type addTaskRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
	Time string `json:"time"`
}

type editTaskRequest struct {
	Text *string `json:"text"`
	Time *string `json:"time"`
}

type listResponse struct {
	Tasks     []domain.Task `json:"tasks"`
	Date      domain.Date   `json:"date"`
	Filter    domain.Filter `json:"filter"`
	Active    int           `json:"active"`
	Completed int           `json:"completed"`
}

type dayResponse struct {
	Preview  []domain.Task `json:"preview"`
	Date     domain.Date   `json:"date"`
	Total    int           `json:"total"`
	Overflow int           `json:"overflow"`
	IsToday  bool          `json:"is_today"`
}

type calendarResponse struct {
	Month  string        `json:"month"`
	Title  string        `json:"title"`
	Days   []dayResponse `json:"days"`
	Offset int           `json:"offset"`
}

type briefResponse struct {
	Date     domain.Date      `json:"date"`
	Reminder domain.Narration `json:"reminder"`
	Summary  domain.Narration `json:"summary"`
}

func listTasksHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := parseOptionalDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
		if err != nil {
			writeError(w, err)
			return
		}

		out, err := c.ListDayUseCase().Execute(r.Context(), usecase.ListDayInput{Date: date, Filter: filter})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{
			Tasks:     nonNil(out.Tasks),
			Date:      out.Date,
			Filter:    out.Filter,
			Active:    out.Active,
			Completed: out.Completed,
		})
	}
}

func addTaskHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		date, err := parseOptionalDate(req.Date)
		if err != nil {
			writeError(w, err)
			return
		}

		out, err := c.AddTaskUseCase().Execute(r.Context(), usecase.AddTaskInput{
			Text: req.Text,
			Time: req.Time,
			Date: date,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if out.Task == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusCreated, out.Task)
	}
}

func toggleTaskHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(w, r)
		if !ok {
			return
		}
		out, err := c.ToggleTaskUseCase().Execute(r.Context(), usecase.ToggleTaskInput{ID: id})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out.Task)
	}
}

func editTaskHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(w, r)
		if !ok {
			return
		}
		var req editTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}

		out, err := c.EditTaskUseCase().Execute(r.Context(), usecase.EditTaskInput{
			ID:   id,
			Text: req.Text,
			Time: req.Time,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if out.Task == nil {
			writeJSON(w, http.StatusBadRequest, errorBody(domain.ErrEmptyText.Error()))
			return
		}
		writeJSON(w, http.StatusOK, out.Task)
	}
}

func deleteTaskHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := taskID(w, r)
		if !ok {
			return
		}
		if err := c.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{ID: id}); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func clearCompletedHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := c.ClearCompletedUseCase().Execute(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"removed": out.Removed})
	}
}

func calendarHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, err := domain.ParseMonth(chi.URLParam(r, "month"))
		if err != nil {
			writeError(w, err)
			return
		}
		out, err := c.ShowMonthUseCase().Execute(r.Context(), usecase.ShowMonthInput{Month: month})
		if err != nil {
			writeError(w, err)
			return
		}

		grid := out.Grid
		resp := calendarResponse{
			Month:  grid.Month.String(),
			Title:  grid.Month.Title(),
			Offset: grid.Offset,
			Days:   make([]dayResponse, len(grid.Days)),
		}
		for i, cell := range grid.Days {
			resp.Days[i] = dayResponse{
				Preview:  nonNil(cell.Preview),
				Date:     cell.Date,
				Total:    cell.Total,
				Overflow: cell.Overflow,
				IsToday:  cell.IsToday,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func briefHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := parseOptionalDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		out, err := c.NarrateUseCase().Execute(r.Context(), usecase.NarrateInput{Date: date})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, briefResponse{Date: out.Date, Reminder: out.Reminder, Summary: out.Summary})
	}
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid task id: %q", chi.URLParam(r, "id"))))
		return 0, false
	}
	return id, true
}

func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}

func nonNil(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidFilter):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
