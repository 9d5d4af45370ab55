package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/markdave123-py/uniconnect/internal/models"
)

func cloneThread(t *models.Thread) *models.Thread {
	c := *t
	c.Resource = nil
	c.Participants = nil
	c.Messages = make([]models.ThreadMessage, len(t.Messages))
	for i, m := range t.Messages {
		m.Sender = nil
		c.Messages[i] = m
	}
	if t.UnreadBy != nil {
		u := *t.UnreadBy
		c.UnreadBy = &u
	}
	return &c
}

func (s *Store) threadsOf(kind models.ThreadKind) (map[string]*models.Thread, error) {
	m, ok := s.threads[kind]
	if !ok {
		return nil, fmt.Errorf("unknown thread kind %q", kind)
	}
	return m, nil
}

func findLocked(threads map[string]*models.Thread, resourceID, ownerID, contacterID string) *models.Thread {
	for _, t := range threads {
		if t.ResourceID == resourceID && t.OwnerID == ownerID && t.ContacterID == contacterID {
			return t
		}
	}
	return nil
}

func (s *Store) EnsureThread(_ context.Context, t *models.Thread) (*models.Thread, bool, error) {
	if t == nil {
		return nil, false, errors.New("nil thread")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, errClosed
	}
	threads, err := s.threadsOf(t.Kind)
	if err != nil {
		return nil, false, err
	}
	if existing := findLocked(threads, t.ResourceID, t.OwnerID, t.ContacterID); existing != nil {
		return cloneThread(existing), false, nil
	}
	stored := cloneThread(t)
	threads[stored.ID] = stored
	s.stamp(stored.ID)
	return cloneThread(stored), true, nil
}

func (s *Store) FindThread(_ context.Context, kind models.ThreadKind, resourceID, ownerID, contacterID string) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	threads, err := s.threadsOf(kind)
	if err != nil {
		return nil, err
	}
	if t := findLocked(threads, resourceID, ownerID, contacterID); t != nil {
		return cloneThread(t), nil
	}
	return nil, nil
}

func (s *Store) FindLatestThreadForParticipant(_ context.Context, kind models.ThreadKind, resourceID, userID string) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	threads, err := s.threadsOf(kind)
	if err != nil {
		return nil, err
	}
	var latest *models.Thread
	for _, t := range threads {
		if t.ResourceID != resourceID || !t.HasParticipant(userID) {
			continue
		}
		if latest == nil || s.newerFirst(t.LastMessageAt, latest.LastMessageAt, t.ID, latest.ID) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneThread(latest), nil
}

func (s *Store) GetThreadByID(_ context.Context, kind models.ThreadKind, id string) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	threads, err := s.threadsOf(kind)
	if err != nil {
		return nil, err
	}
	t, ok := threads[id]
	if !ok {
		return nil, nil
	}
	return cloneThread(t), nil
}

func (s *Store) AppendThreadMessage(_ context.Context, kind models.ThreadKind, threadID string, msg models.ThreadMessage, unreadBy string, at time.Time) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	threads, err := s.threadsOf(kind)
	if err != nil {
		return nil, err
	}
	t, ok := threads[threadID]
	if !ok {
		return nil, nil
	}
	msg.Sender = nil
	t.Messages = append(t.Messages, msg)
	if unreadBy == "" {
		t.UnreadBy = nil
	} else {
		u := unreadBy
		t.UnreadBy = &u
	}
	t.LastMessageAt = at
	return cloneThread(t), nil
}

func (s *Store) ListThreadsUnreadBy(_ context.Context, kind models.ThreadKind, userID string) ([]models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	threads, err := s.threadsOf(kind)
	if err != nil {
		return nil, err
	}
	out := []models.Thread{}
	for _, t := range threads {
		if t.IsUnreadBy(userID) {
			out = append(out, *cloneThread(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.newerFirst(out[i].LastMessageAt, out[j].LastMessageAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) ClearThreadUnread(_ context.Context, kind models.ThreadKind, threadID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	threads, err := s.threadsOf(kind)
	if err != nil {
		return err
	}
	if t, ok := threads[threadID]; ok && t.IsUnreadBy(userID) {
		t.UnreadBy = nil
	}
	return nil
}
