package services

import (
	"context"
	"fmt"

	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
)

// UserDirectory resolves soft user references to display names, one store round trip per call.
// Ids that no longer resolve leave the reference unset.
type UserDirectory struct {
	db core.DbClient
}

func NewUserDirectory(db core.DbClient) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) lookup(ctx context.Context, ids []string) (map[string]models.User, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	users, err := d.db.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	return users, nil
}

func refFor(users map[string]models.User, id string) *models.UserRef {
	u, ok := users[id]
	if !ok {
		return nil
	}
	ref := u.Ref()
	return &ref
}

// AttachOwners sets the owner reference on every item.
func (d *UserDirectory) AttachOwners(ctx context.Context, items ...models.Owned) error {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.OwnerID()
	}
	users, err := d.lookup(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		it.SetOwner(refFor(users, it.OwnerID()))
	}
	return nil
}

// AttachProjects resolves project owners and reviewers.
func (d *UserDirectory) AttachProjects(ctx context.Context, projects ...*models.Project) error {
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.UserID)
		for _, r := range p.Reviews {
			ids = append(ids, r.UserID)
		}
	}
	users, err := d.lookup(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.User = refFor(users, p.UserID)
		for i := range p.Reviews {
			p.Reviews[i].User = refFor(users, p.Reviews[i].UserID)
		}
	}
	return nil
}

// AttachThreads fills participants (always both ids, names when known) and message senders.
func (d *UserDirectory) AttachThreads(ctx context.Context, threads ...*models.Thread) error {
	var ids []string
	for _, t := range threads {
		ids = append(ids, t.OwnerID, t.ContacterID)
		for _, m := range t.Messages {
			ids = append(ids, m.SenderID)
		}
	}
	users, err := d.lookup(ctx, ids)
	if err != nil {
		return err
	}
	for _, t := range threads {
		t.Participants = []models.UserRef{participant(users, t.OwnerID), participant(users, t.ContacterID)}
		for i := range t.Messages {
			t.Messages[i].Sender = refFor(users, t.Messages[i].SenderID)
		}
	}
	return nil
}

func participant(users map[string]models.User, id string) models.UserRef {
	if ref := refFor(users, id); ref != nil {
		return *ref
	}
	return models.UserRef{ID: id}
}
