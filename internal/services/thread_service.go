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

// ThreadService runs the two-party conversation flow for any resource kind. The owner of the
// resource and the first contacter form a fixed pair; unreadBy always names whoever did not send
// the latest message.
type ThreadService struct {
	db        core.DbClient
	directory *UserDirectory
	now       func() time.Time
}

func NewThreadService(db core.DbClient, directory *UserDirectory) *ThreadService {
	return &ThreadService{db: db, directory: directory, now: time.Now}
}

// resource is the part of a listing or lost item a thread needs.
type resource struct {
	ID      string
	OwnerID string
	Name    string
}

func (s *ThreadService) lookupResource(ctx context.Context, kind models.ThreadKind, id string) (*resource, error) {
	switch kind {
	case models.ListingThread:
		l, err := s.db.GetListingByID(ctx, id)
		if err != nil || l == nil {
			return nil, err
		}
		return &resource{ID: l.ID, OwnerID: l.UserID, Name: l.Title}, nil
	case models.LostItemThread:
		i, err := s.db.GetLostItemByID(ctx, id)
		if err != nil || i == nil {
			return nil, err
		}
		return &resource{ID: i.ID, OwnerID: i.UserID, Name: i.ItemName}, nil
	}
	return nil, fmt.Errorf("unknown thread kind %q", kind)
}

type SendInput struct {
	ResourceID string
	// RecipientID lets the owner pick which contacter to answer. Ignored for contacters.
	RecipientID string
	Text        string
}

// Send finds or creates the caller's thread on the resource and appends a message to it.
func (s *ThreadService) Send(ctx context.Context, kind models.ThreadKind, callerID string, in SendInput) (*models.Thread, error) {
	text := strings.TrimSpace(in.Text)
	if in.ResourceID == "" {
		return nil, core.BadRequest(kind.ResourceLabel() + " id is required.")
	}
	if text == "" {
		return nil, core.BadRequest("Message text is required.")
	}

	res, err := s.lookupResource(ctx, kind, in.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if res == nil {
		return nil, core.NotFound(kind.ResourceLabel() + " not found.")
	}

	now := s.now()
	msg := models.ThreadMessage{
		ID:        uuid.NewString(),
		SenderID:  callerID,
		Text:      text,
		Timestamp: now,
	}

	var thread *models.Thread
	if callerID != res.OwnerID {
		ownerID := res.OwnerID
		var created bool
		thread, created, err = s.db.EnsureThread(ctx, &models.Thread{
			ID:            uuid.NewString(),
			Kind:          kind,
			ResourceID:    res.ID,
			OwnerID:       res.OwnerID,
			ContacterID:   callerID,
			Messages:      []models.ThreadMessage{msg},
			LastMessageAt: now,
			UnreadBy:      &ownerID,
			CreatedAt:     now,
		})
		if err != nil {
			return nil, fmt.Errorf("ensure thread: %w", err)
		}
		if created {
			return s.attach(ctx, thread)
		}
	} else {
		thread, err = s.ownerThread(ctx, kind, res, in.RecipientID)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.db.AppendThreadMessage(ctx, kind, thread.ID, msg, thread.Other(callerID), now)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	if updated == nil {
		return nil, core.NotFound("Conversation not found.")
	}
	return s.attach(ctx, updated)
}

func (s *ThreadService) attach(ctx context.Context, thread *models.Thread) (*models.Thread, error) {
	if err := s.directory.AttachThreads(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ownerThread picks the thread an owner is replying to. Owners cannot open a thread; a
// contacter has to write first.
func (s *ThreadService) ownerThread(ctx context.Context, kind models.ThreadKind, res *resource, recipientID string) (*models.Thread, error) {
	var (
		thread *models.Thread
		err    error
	)
	if recipientID != "" && recipientID != res.OwnerID {
		thread, err = s.db.FindThread(ctx, kind, res.ID, res.OwnerID, recipientID)
		if err != nil {
			return nil, fmt.Errorf("find thread: %w", err)
		}
		if thread == nil {
			return nil, core.NotFound("Conversation not found.")
		}
		return thread, nil
	}

	thread, err = s.db.FindLatestThreadForParticipant(ctx, kind, res.ID, res.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}
	if thread == nil {
		return nil, core.BadRequest("The owner cannot start a conversation.")
	}
	return thread, nil
}

// ForResource returns the caller's most recently active thread on the resource, or nil.
func (s *ThreadService) ForResource(ctx context.Context, kind models.ThreadKind, callerID, resourceID string) (*models.Thread, error) {
	thread, err := s.db.FindLatestThreadForParticipant(ctx, kind, resourceID, callerID)
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}
	if thread == nil {
		return nil, nil
	}
	return s.attach(ctx, thread)
}

// Get loads one thread by id for a participant. Anyone else gets the same not-found as a
// missing id.
func (s *ThreadService) Get(ctx context.Context, kind models.ThreadKind, callerID, threadID string) (*models.Thread, error) {
	thread, err := s.db.GetThreadByID(ctx, kind, threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	if thread == nil || !thread.HasParticipant(callerID) {
		return nil, core.NotFound("Conversation not found.")
	}
	return s.attach(ctx, thread)
}

// Notifications lists the threads waiting for the caller, newest first, with resource names.
func (s *ThreadService) Notifications(ctx context.Context, kind models.ThreadKind, callerID string) ([]models.Thread, error) {
	threads, err := s.db.ListThreadsUnreadBy(ctx, kind, callerID)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}

	resources := map[string]*resource{}
	ptrs := make([]*models.Thread, len(threads))
	for i := range threads {
		t := &threads[i]
		ptrs[i] = t
		res, seen := resources[t.ResourceID]
		if !seen {
			if res, err = s.lookupResource(ctx, kind, t.ResourceID); err != nil {
				return nil, fmt.Errorf("load %s: %w", kind, err)
			}
			resources[t.ResourceID] = res
		}
		if res != nil {
			t.Resource = &models.ResourceRef{ID: res.ID, Name: res.Name}
		}
	}
	if err := s.directory.AttachThreads(ctx, ptrs...); err != nil {
		return nil, err
	}
	return threads, nil
}

// MarkRead clears the unread flag when it points at the caller; otherwise it does nothing.
func (s *ThreadService) MarkRead(ctx context.Context, kind models.ThreadKind, callerID, threadID string) error {
	thread, err := s.db.GetThreadByID(ctx, kind, threadID)
	if err != nil {
		return fmt.Errorf("load thread: %w", err)
	}
	if thread == nil {
		return core.NotFound("Conversation not found.")
	}
	if !thread.IsUnreadBy(callerID) {
		return nil
	}
	return s.db.ClearThreadUnread(ctx, kind, threadID, callerID)
}
