package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	"github.com/markdave123-py/uniconnect/internal/core"
)

type HealthHandler struct {
	dbclient core.DbClient
}

func NewHealthHandler(dbclient core.DbClient) *HealthHandler {
	return &HealthHandler{dbclient: dbclient}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.dbclient.Ping(ctx); err != nil {
		log.Printf("health: ping: %v", err)
		httpx.Message(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
