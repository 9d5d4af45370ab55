package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	middleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/api/validation"
	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
	"github.com/markdave123-py/uniconnect/internal/services"
)

type EventHandler struct {
	dbclient  core.DbClient
	directory *services.UserDirectory
	now       func() time.Time
}

func NewEventHandler(dbclient core.DbClient, directory *services.UserDirectory) *EventHandler {
	return &EventHandler{dbclient: dbclient, directory: directory, now: time.Now}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.dbclient.ListEvents(r.Context())
	if err != nil {
		httpx.Error(w, "events: list", err)
		return
	}
	if err := h.directory.AttachOwners(r.Context(), ownedSlice(events)...); err != nil {
		httpx.Error(w, "events: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Media       []string `json:"media"`
}

// parseEventDate accepts a full RFC 3339 timestamp or a plain calendar date.
func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, core.BadRequest("date must be RFC 3339 or YYYY-MM-DD.")
	}
	return t, nil
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req eventRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "events: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("title", req.Title, v)
	validation.Required("description", req.Description, v)
	validation.Required("date", req.Date, v)
	validation.Required("location", req.Location, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "events: create", err)
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		httpx.Error(w, "events: create", err)
		return
	}
	if err := requireUser(ctx, h.dbclient, userID); err != nil {
		httpx.Error(w, "events: create", err)
		return
	}

	now := h.now()
	event := &models.Event{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Location:    strings.TrimSpace(req.Location),
		Media:       orEmpty(req.Media),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.dbclient.CreateEvent(ctx, event); err != nil {
		httpx.Error(w, "events: create", err)
		return
	}
	if err := h.directory.AttachOwners(ctx, event); err != nil {
		httpx.Error(w, "events: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, event)
}
