// Package memstore is an in-process implementation of core.DbClient. It backs STORE_DRIVER=memory
// and the handler tests. Values are copied on the way in and out so callers never share slices
// with the store.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]models.User
	emailIndex  map[string]string
	notes       []models.Note
	projects    map[string]*models.Project
	messages    []models.Message
	listings    map[string]models.Listing
	events      []models.Event
	lostItems   map[string]models.LostItem
	threads     map[models.ThreadKind]map[string]*models.Thread
	closed      bool
	insertOrder int64
	seq         map[string]int64
}

var _ core.DbClient = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      map[string]models.User{},
		emailIndex: map[string]string{},
		projects:   map[string]*models.Project{},
		listings:   map[string]models.Listing{},
		lostItems:  map[string]models.LostItem{},
		threads: map[models.ThreadKind]map[string]*models.Thread{
			models.ListingThread:  {},
			models.LostItemThread: {},
		},
		seq: map[string]int64{},
	}
}

var errClosed = errors.New("memstore: closed")

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return ctx.Err()
}

// Close marks the store unavailable. Ping and every write fail with errClosed afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// stamp records insertion order so equal timestamps still sort deterministically.
func (s *Store) stamp(id string) {
	s.insertOrder++
	s.seq[id] = s.insertOrder
}

// newerFirst orders by t descending, then by insertion order descending.
func (s *Store) newerFirst(ti, tj time.Time, idi, idj string) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return s.seq[idi] > s.seq[idj]
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	if _, taken := s.emailIndex[user.Email]; taken {
		return core.ErrDuplicate
	}
	s.users[user.ID] = *user
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *Store) UpdateUserProfile(_ context.Context, id, bio, pictureURL string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.Bio = bio
	u.ProfilePictureURL = pictureURL
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

// Notes

func (s *Store) CreateNote(_ context.Context, note *models.Note) error {
	if note == nil {
		return errors.New("nil note")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	n := *note
	n.User = nil
	s.notes = append(s.notes, n)
	s.stamp(n.ID)
	return nil
}

func (s *Store) ListNotes(_ context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	sort.SliceStable(out, func(i, j int) bool {
		return s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// Projects

func cloneProject(p *models.Project) models.Project {
	c := *p
	c.User = nil
	c.Photos = cloneStrings(p.Photos)
	c.Videos = cloneStrings(p.Videos)
	c.Reviews = make([]models.Review, len(p.Reviews))
	for i, r := range p.Reviews {
		r.User = nil
		c.Reviews[i] = r
	}
	return c
}

func (s *Store) CreateProject(_ context.Context, project *models.Project) error {
	if project == nil {
		return errors.New("nil project")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	p := cloneProject(project)
	s.projects[p.ID] = &p
	s.stamp(p.ID)
	return nil
}

func (s *Store) GetProjectByID(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	c := cloneProject(p)
	return &c, nil
}

func (s *Store) ListProjects(_ context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) PrependProjectReview(_ context.Context, projectID string, review models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	p, ok := s.projects[projectID]
	if !ok {
		return errors.New("memstore: project not found")
	}
	review.User = nil
	p.Reviews = append([]models.Review{review}, p.Reviews...)
	return nil
}

// Chat messages

func (s *Store) CreateMessage(_ context.Context, msg *models.Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	m := *msg
	m.User = nil
	s.messages = append(s.messages, m)
	s.stamp(m.ID)
	return nil
}

func (s *Store) ListMessagesByRoom(_ context.Context, room string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Message{}
	for _, m := range s.messages {
		if m.Room == room {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Listings

func (s *Store) CreateListing(_ context.Context, listing *models.Listing) error {
	if listing == nil {
		return errors.New("nil listing")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	l := *listing
	l.User = nil
	l.ImageURLs = cloneStrings(listing.ImageURLs)
	s.listings[l.ID] = l
	s.stamp(l.ID)
	return nil
}

func (s *Store) GetListingByID(_ context.Context, id string) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, nil
	}
	l.ImageURLs = cloneStrings(l.ImageURLs)
	return &l, nil
}

func (s *Store) ListListings(_ context.Context) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		l.ImageURLs = cloneStrings(l.ImageURLs)
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// Events

func (s *Store) CreateEvent(_ context.Context, event *models.Event) error {
	if event == nil {
		return errors.New("nil event")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	e := *event
	e.User = nil
	e.Media = cloneStrings(event.Media)
	s.events = append(s.events, e)
	s.stamp(e.ID)
	return nil
}

func (s *Store) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	for i, e := range s.events {
		e.Media = cloneStrings(e.Media)
		out[i] = e
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// Lost and found

func (s *Store) CreateLostItem(_ context.Context, item *models.LostItem) error {
	if item == nil {
		return errors.New("nil lost item")
	}
	if !item.Status.Valid() {
		return fmt.Errorf("memstore: invalid lost item status %q", item.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	i := *item
	i.User = nil
	s.lostItems[i.ID] = i
	s.stamp(i.ID)
	return nil
}

func (s *Store) GetLostItemByID(_ context.Context, id string) (*models.LostItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.lostItems[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (s *Store) ListUnresolvedLostItems(_ context.Context) ([]models.LostItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.LostItem{}
	for _, i := range s.lostItems {
		if !i.IsResolved {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return s.newerFirst(out[a].CreatedAt, out[b].CreatedAt, out[a].ID, out[b].ID)
	})
	return out, nil
}
