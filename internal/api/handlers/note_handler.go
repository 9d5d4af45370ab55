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

type NoteHandler struct {
	dbclient  core.DbClient
	directory *services.UserDirectory
	now       func() time.Time
}

func NewNoteHandler(dbclient core.DbClient, directory *services.UserDirectory) *NoteHandler {
	return &NoteHandler{dbclient: dbclient, directory: directory, now: time.Now}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.dbclient.ListNotes(r.Context())
	if err != nil {
		httpx.Error(w, "notes: list", err)
		return
	}
	if err := h.directory.AttachOwners(r.Context(), ownedSlice(notes)...); err != nil {
		httpx.Error(w, "notes: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, notes)
}

type noteRequest struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	FileURL    string `json:"fileUrl"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req noteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "notes: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("title", req.Title, v)
	validation.Required("department", req.Department, v)
	validation.Required("fileUrl", req.FileURL, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "notes: create", err)
		return
	}
	if err := requireUser(ctx, h.dbclient, userID); err != nil {
		httpx.Error(w, "notes: create", err)
		return
	}

	now := h.now()
	note := &models.Note{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Department: strings.TrimSpace(req.Department),
		FileURL:    strings.TrimSpace(req.FileURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.dbclient.CreateNote(ctx, note); err != nil {
		httpx.Error(w, "notes: create", err)
		return
	}
	if err := h.directory.AttachOwners(ctx, note); err != nil {
		httpx.Error(w, "notes: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, note)
}
