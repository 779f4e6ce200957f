// Package httpapi exposes the calendar service to the browser UI as a
// small JSON API. Mutation outcomes travel in-band as Result bodies so
// the UI never needs exception-style error handling: a 200 with
// success=false carries the message (and field errors) to display.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/slateplan/slateplan/internal/metrics"
	"github.com/slateplan/slateplan/pkg/types"
)

// EventService is the read and mutation surface the API serves.
type EventService interface {
	ListEvents(ctx context.Context) (types.Collection, error)
	CreateEvent(ctx context.Context, e types.Event) types.Result
	UpdateEvent(ctx context.Context, e types.Event) types.Result
	DeleteEvent(ctx context.Context, id string) types.Result
}

// Rescheduler is the optimistic mirror's drag-to-reschedule entry point.
type Rescheduler interface {
	Reschedule(ctx context.Context, id string, start, end time.Time) types.Result
}

// Handler serves the /api routes.
type Handler struct {
	svc    EventService
	mirror Rescheduler
	log    zerolog.Logger
}

// NewHandler returns a handler backed by the given service and mirror.
func NewHandler(svc EventService, mirror Rescheduler, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, mirror: mirror, log: log}
}

// Router assembles the HTTP surface: the JSON API, the prometheus
// endpoint and a liveness probe.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.listEvents)
		r.Post("/events", h.createEvent)
		r.Put("/events/{id}", h.updateEvent)
		r.Delete("/events/{id}", h.deleteEvent)
		r.Post("/events/{id}/reschedule", h.rescheduleEvent)
	})
	return r
}

// eventPayload is the JSON shape the UI sends and receives. Timestamps
// travel as RFC 3339 strings; attachment travels as a list of links.
type eventPayload struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Status     string   `json:"status"`
	Notes      string   `json:"notes,omitempty"`
	Attachment []string `json:"attachment,omitempty"`
}

// toEvent builds a typed event, reporting unparsable timestamps as
// field errors on the offending input.
func (p eventPayload) toEvent() (types.Event, []types.FieldError) {
	var errs []types.FieldError
	e := types.Event{ID: p.ID, Title: p.Title, Status: p.Status, Notes: p.Notes}
	e.SetAttachmentLinks(p.Attachment)

	if p.Start != "" {
		t, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			errs = append(errs, types.FieldError{Field: "start", Message: "start must be an RFC 3339 timestamp"})
		} else {
			e.Start = t
		}
	}
	if p.End != "" {
		t, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			errs = append(errs, types.FieldError{Field: "end", Message: "end must be an RFC 3339 timestamp"})
		} else {
			e.End = t
		}
	}
	return e, errs
}

func fromEvent(e types.Event) eventPayload {
	return eventPayload{
		ID:         e.ID,
		Title:      e.Title,
		Start:      e.Start.Format(time.RFC3339Nano),
		End:        e.End.Format(time.RFC3339Nano),
		Status:     e.Status,
		Notes:      e.Notes,
		Attachment: e.AttachmentLinks(),
	}
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list events")
		writeJSON(w, http.StatusBadGateway, types.Fail("The calendar store is unavailable. Try again shortly."))
		return
	}
	payloads := make([]eventPayload, 0, len(events))
	for _, e := range events {
		payloads = append(payloads, fromEvent(e))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	e, errs := p.toEvent()
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, types.Invalid(errs))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.CreateEvent(r.Context(), e))
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if p.ID == "" {
		p.ID = chi.URLParam(r, "id")
	}
	e, errs := p.toEvent()
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, types.Invalid(errs))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.UpdateEvent(r.Context(), e))
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.DeleteEvent(r.Context(), chi.URLParam(r, "id")))
}

// reschedulePayload is the drag-and-drop intent: just the new window.
type reschedulePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *Handler) rescheduleEvent(w http.ResponseWriter, r *http.Request) {
	var p reschedulePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, types.Fail("Malformed request body."))
		return
	}

	var errs []types.FieldError
	start, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		errs = append(errs, types.FieldError{Field: "start", Message: "start must be an RFC 3339 timestamp"})
	}
	end, err := time.Parse(time.RFC3339, p.End)
	if err != nil {
		errs = append(errs, types.FieldError{Field: "end", Message: "end must be an RFC 3339 timestamp"})
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, types.Invalid(errs))
		return
	}

	writeJSON(w, http.StatusOK, h.mirror.Reschedule(r.Context(), chi.URLParam(r, "id"), start, end))
}

func decodePayload(w http.ResponseWriter, r *http.Request) (eventPayload, bool) {
	var p eventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, types.Fail("Malformed request body."))
		return eventPayload{}, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
