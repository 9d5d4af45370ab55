package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
)

type ProjectService struct {
	db        core.DbClient
	directory *UserDirectory
	now       func() time.Time
}

func NewProjectService(db core.DbClient, directory *UserDirectory) *ProjectService {
	return &ProjectService{db: db, directory: directory, now: time.Now}
}

// AddReview prepends a review by reviewerID. Owners cannot review their own project.
func (s *ProjectService) AddReview(ctx context.Context, projectID, reviewerID, text string) (*models.Project, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, core.BadRequest("Review text is required.")
	}

	project, err := s.db.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, core.NotFound("Project not found.")
	}
	if project.UserID == reviewerID {
		return nil, core.BadRequest("You cannot review your own project.")
	}

	review := models.Review{
		ID:        uuid.NewString(),
		UserID:    reviewerID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.db.PrependProjectReview(ctx, projectID, review); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	updated, err := s.db.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("reload project: %w", err)
	}
	if updated == nil {
		return nil, core.NotFound("Project not found.")
	}
	if err := s.directory.AttachProjects(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
