package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	middleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/api/validation"
	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
	"github.com/markdave123-py/uniconnect/internal/services"
)

// MessageHandler serves the room chat. Rooms are "Public" or a department name.
type MessageHandler struct {
	dbclient  core.DbClient
	directory *services.UserDirectory
	now       func() time.Time
}

func NewMessageHandler(dbclient core.DbClient, directory *services.UserDirectory) *MessageHandler {
	return &MessageHandler{dbclient: dbclient, directory: directory, now: time.Now}
}

func (h *MessageHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	messages, err := h.dbclient.ListMessagesByRoom(r.Context(), chi.URLParam(r, "room"))
	if err != nil {
		httpx.Error(w, "messages: list", err)
		return
	}
	if err := h.directory.AttachOwners(r.Context(), ownedSlice(messages)...); err != nil {
		httpx.Error(w, "messages: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, messages)
}

type messageRequest struct {
	Text string `json:"text"`
	Room string `json:"room"`
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req messageRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "messages: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("text", req.Text, v)
	validation.Required("room", req.Room, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "messages: create", err)
		return
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		UserID:    middleware.UserID(ctx),
		Text:      strings.TrimSpace(req.Text),
		Room:      strings.TrimSpace(req.Room),
		Timestamp: h.now(),
	}
	if err := h.dbclient.CreateMessage(ctx, msg); err != nil {
		httpx.Error(w, "messages: create", err)
		return
	}
	if err := h.directory.AttachOwners(ctx, msg); err != nil {
		httpx.Error(w, "messages: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, msg)
}
