package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
)

type EventHandler struct {
	eventService       ports.EventService
	participantService ports.ParticipantService
}

func NewEventHandler(eventService ports.EventService, participantService ports.ParticipantService) *EventHandler {
	return &EventHandler{
		eventService:       eventService,
		participantService: participantService,
	}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// created_by always comes from the authenticated identity, never the body.
	event, err := h.eventService.Create(r.Context(), ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Date:        req.Date,
		CreatedBy:   user.ID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		input.Category = &category
	}

	event, err := h.eventService.Update(r.Context(), id, user.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), id, user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "event deleted")
}

func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.participantService.Join(r.Context(), id, user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "joined event")
}

func (h *EventHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.participantService.Leave(r.Context(), id, user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "left event")
}

func (h *EventHandler) Participants(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	users, err := h.participantService.List(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if users == nil {
		users = []domain.PublicUser{}
	}
	respondJSON(w, http.StatusOK, users)
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}
