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

type ProjectHandler struct {
	dbclient  core.DbClient
	projects  *services.ProjectService
	directory *services.UserDirectory
	now       func() time.Time
}

func NewProjectHandler(dbclient core.DbClient, projects *services.ProjectService, directory *services.UserDirectory) *ProjectHandler {
	return &ProjectHandler{dbclient: dbclient, projects: projects, directory: directory, now: time.Now}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.dbclient.ListProjects(r.Context())
	if err != nil {
		httpx.Error(w, "projects: list", err)
		return
	}
	ptrs := make([]*models.Project, len(projects))
	for i := range projects {
		ptrs[i] = &projects[i]
	}
	if err := h.directory.AttachProjects(r.Context(), ptrs...); err != nil {
		httpx.Error(w, "projects: list", err)
		return
	}
	httpx.JSON(w, http.StatusOK, projects)
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Department  string   `json:"department"`
	Photos      []string `json:"photos"`
	Videos      []string `json:"videos"`
	PDF         string   `json:"pdf"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req projectRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "projects: create", err)
		return
	}
	v := validation.Violations{}
	validation.Required("title", req.Title, v)
	validation.Required("description", req.Description, v)
	validation.Required("department", req.Department, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "projects: create", err)
		return
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		UserID:      middleware.UserID(ctx),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Department:  strings.TrimSpace(req.Department),
		Photos:      orEmpty(req.Photos),
		Videos:      orEmpty(req.Videos),
		PDF:         strings.TrimSpace(req.PDF),
		Reviews:     []models.Review{},
		CreatedAt:   h.now(),
	}
	if err := h.dbclient.CreateProject(ctx, project); err != nil {
		httpx.Error(w, "projects: create", err)
		return
	}
	if err := h.directory.AttachProjects(ctx, project); err != nil {
		httpx.Error(w, "projects: create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, project)
}

type reviewRequest struct {
	Text string `json:"text"`
}

func (h *ProjectHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "projects: review", err)
		return
	}

	project, err := h.projects.AddReview(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Text)
	if err != nil {
		httpx.Error(w, "projects: review", err)
		return
	}
	httpx.JSON(w, http.StatusOK, project)
}
