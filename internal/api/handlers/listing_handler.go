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

type ListingHandler struct {
	dbclient  core.DbClient
	directory *services.UserDirectory
	now       func() time.Time
}

func NewListingHandler(dbclient core.DbClient, directory *services.UserDirectory) *ListingHandler {
	return &ListingHandler{dbclient: dbclient, directory: directory, now: time.Now}
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.dbclient.ListListings(r.Context())
	if err != nil {
		httpx.Error(w, "listings: list", err)
		return
	}
	if err := h.directory.AttachOwners(r.Context(), ownedSlice(listings)...); err != nil {
		httpx.Error(w, "listings: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listings)
}

type listingRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        looseString `json:"price"`
	ImageURLs    []string    `json:"imageUrls"`
	IsNegotiable bool        `json:"isNegotiable"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req listingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "listings: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("title", req.Title, v)
	validation.Required("description", req.Description, v)
	validation.Required("price", string(req.Price), v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "listings: create", err)
		return
	}

	listing := &models.Listing{
		ID:           uuid.NewString(),
		UserID:       middleware.UserID(ctx),
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Price:        strings.TrimSpace(string(req.Price)),
		ImageURLs:    orEmpty(req.ImageURLs),
		IsNegotiable: req.IsNegotiable,
		CreatedAt:    h.now(),
	}
	if err := h.dbclient.CreateListing(ctx, listing); err != nil {
		httpx.Error(w, "listings: create", err)
		return
	}
	if err := h.directory.AttachOwners(ctx, listing); err != nil {
		httpx.Error(w, "listings: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, listing)
}
