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

type LostItemHandler struct {
	dbclient  core.DbClient
	directory *services.UserDirectory
	now       func() time.Time
}

func NewLostItemHandler(dbclient core.DbClient, directory *services.UserDirectory) *LostItemHandler {
	return &LostItemHandler{dbclient: dbclient, directory: directory, now: time.Now}
}

// List returns unresolved items only.
func (h *LostItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.dbclient.ListUnresolvedLostItems(r.Context())
	if err != nil {
		httpx.Error(w, "lost-items: list", err)
		return
	}
	if err := h.directory.AttachOwners(r.Context(), ownedSlice(items)...); err != nil {
		httpx.Error(w, "lost-items: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

type lostItemRequest struct {
	Status      string `json:"status"`
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
}

func (h *LostItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req lostItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "lost-items: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("status", req.Status, v)
	validation.Required("itemName", req.ItemName, v)
	validation.Required("description", req.Description, v)
	validation.Required("location", req.Location, v)
	if strings.TrimSpace(req.Status) != "" {
		validation.OneOf("status", req.Status, []string{string(models.LostStatus), string(models.FoundStatus)}, v)
	}
	if err := v.Err(); err != nil {
		httpx.Error(w, "lost-items: create", err)
		return
	}

	item := &models.LostItem{
		ID:          uuid.NewString(),
		UserID:      middleware.UserID(ctx),
		Status:      models.LostItemStatus(req.Status),
		ItemName:    strings.TrimSpace(req.ItemName),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CreatedAt:   h.now(),
	}
	if err := h.dbclient.CreateLostItem(ctx, item); err != nil {
		httpx.Error(w, "lost-items: create", err)
		return
	}
	if err := h.directory.AttachOwners(ctx, item); err != nil {
		httpx.Error(w, "lost-items: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}
