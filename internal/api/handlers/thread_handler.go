package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	middleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/models"
	"github.com/markdave123-py/uniconnect/internal/services"
)

// ThreadHandler serves one conversation router. The listing and lost-item routers differ only in
// the thread kind and the path segment of the lookup route.
type ThreadHandler struct {
	threads *services.ThreadService
	kind    models.ThreadKind
	scope   string
}

type sendRequest struct {
	ListingID   string `json:"listingId"`
	ItemID      string `json:"itemId"`
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

func NewThreadHandler(threads *services.ThreadService, kind models.ThreadKind) *ThreadHandler {
	h := &ThreadHandler{threads: threads, kind: kind}
	switch kind {
	case models.LostItemThread:
		h.scope = "lost-item-conversations"
	default:
		h.scope = "conversations"
	}
	return h
}

// ResourceSegment is the path segment of the get-for-resource route.
func (h *ThreadHandler) ResourceSegment() string {
	if h.kind == models.LostItemThread {
		return "item"
	}
	return "listing"
}

// Send appends a message, creating the thread on the first contact.
func (h *ThreadHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body sendRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, h.scope+": send", err)
		return
	}
	resourceID := body.ListingID
	if h.kind == models.LostItemThread {
		resourceID = body.ItemID
	}

	thread, err := h.threads.Send(r.Context(), h.kind, middleware.UserID(r.Context()), services.SendInput{
		ResourceID:  resourceID,
		RecipientID: body.RecipientID,
		Text:        body.Text,
	})
	if err != nil {
		httpx.Error(w, h.scope+": send", err)
		return
	}
	httpx.JSON(w, http.StatusOK, thread)
}

// ForResource returns the caller's thread on the resource, or null.
func (h *ThreadHandler) ForResource(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threads.ForResource(r.Context(), h.kind, middleware.UserID(r.Context()), chi.URLParam(r, "resourceId"))
	if err != nil {
		httpx.Error(w, h.scope+": get", err)
		return
	}
	httpx.JSON(w, http.StatusOK, thread)
}

// Get returns one thread by id. Owners use it to open a specific contacter's thread.
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threads.Get(r.Context(), h.kind, middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, h.scope+": get", err)
		return
	}
	httpx.JSON(w, http.StatusOK, thread)
}

func (h *ThreadHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	threads, err := h.threads.Notifications(r.Context(), h.kind, middleware.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, h.scope+": notifications", err)
		return
	}
	httpx.JSON(w, http.StatusOK, threads)
}

func (h *ThreadHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.threads.MarkRead(r.Context(), h.kind, middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, h.scope+": read", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Conversation marked as read.")
}

// Routes mounts the conversation routes on r.
func (h *ThreadHandler) Routes(r chi.Router) {
	r.Post("/", h.Send)
	r.Get("/notifications", h.Notifications)
	r.Get("/"+h.ResourceSegment()+"/{resourceId}", h.ForResource)
	r.Get("/{id}", h.Get)
	r.Put("/read/{id}", h.MarkRead)
}
