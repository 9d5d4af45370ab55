package core

import (
	"context"
	"io"
	"time"

	"github.com/markdave123-py/uniconnect/internal/models"
)

// DbClient defines all persistence operations the services and handlers need.
// Lookups return (nil, nil) when the record does not exist.
type DbClient interface {
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
	UpdateUserProfile(ctx context.Context, id, bio, pictureURL string) (*models.User, error)

	CreateNote(ctx context.Context, note *models.Note) error
	ListNotes(ctx context.Context) ([]models.Note, error)

	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	PrependProjectReview(ctx context.Context, projectID string, review models.Review) error

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessagesByRoom(ctx context.Context, room string) ([]models.Message, error)

	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListingByID(ctx context.Context, id string) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context) ([]models.Event, error)

	CreateLostItem(ctx context.Context, item *models.LostItem) error
	GetLostItemByID(ctx context.Context, id string) (*models.LostItem, error)
	ListUnresolvedLostItems(ctx context.Context) ([]models.LostItem, error)

	ThreadStore
}

// ThreadStore persists two-party threads. Every method is scoped to one ThreadKind.
type ThreadStore interface {
	// EnsureThread inserts t, first message included, unless a thread with the same resource and
	// participant pair exists. It returns the stored thread either way; created reports whether t
	// was the one inserted.
	EnsureThread(ctx context.Context, t *models.Thread) (thread *models.Thread, created bool, err error)
	FindThread(ctx context.Context, kind models.ThreadKind, resourceID, ownerID, contacterID string) (*models.Thread, error)
	// FindLatestThreadForParticipant returns the most recently active thread on the resource
	// that userID takes part in.
	FindLatestThreadForParticipant(ctx context.Context, kind models.ThreadKind, resourceID, userID string) (*models.Thread, error)
	GetThreadByID(ctx context.Context, kind models.ThreadKind, id string) (*models.Thread, error)
	// AppendThreadMessage appends msg and sets unreadBy and lastMessageAt in one atomic write.
	AppendThreadMessage(ctx context.Context, kind models.ThreadKind, threadID string, msg models.ThreadMessage, unreadBy string, at time.Time) (*models.Thread, error)
	ListThreadsUnreadBy(ctx context.Context, kind models.ThreadKind, userID string) ([]models.Thread, error)
	// ClearThreadUnread clears unreadBy only if it currently equals userID.
	ClearThreadUnread(ctx context.Context, kind models.ThreadKind, threadID, userID string) error
}

// ObjectClient stores uploaded bytes and returns a URL they can be fetched from.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
}
