package models

import "time"

// ThreadKind selects which resource a thread is about, and with it the backing collection.
type ThreadKind string

const (
	ListingThread  ThreadKind = "listing"
	LostItemThread ThreadKind = "lost_item"
)

// ResourceLabel is the human name of the resource type, used in error messages.
func (k ThreadKind) ResourceLabel() string {
	if k == LostItemThread {
		return "Item"
	}
	return "Listing"
}

// ResourceRef is the resolved target of a thread: a listing title or a lost item name.
type ResourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Thread is a two-party conversation about one resource. The participant pair is fixed at
// creation: the resource owner and the first contacter.
type Thread struct {
	ID            string          `db:"id" json:"id"`
	Kind          ThreadKind      `db:"-" json:"kind"`
	ResourceID    string          `db:"resource_id" json:"resourceId"`
	Resource      *ResourceRef    `db:"-" json:"resource,omitempty"`
	OwnerID       string          `db:"owner_id" json:"ownerId"`
	ContacterID   string          `db:"contacter_id" json:"contacterId"`
	Participants  []UserRef       `db:"-" json:"participants"`
	Messages      []ThreadMessage `db:"messages" json:"messages"`
	LastMessageAt time.Time       `db:"last_message_at" json:"lastMessageAt"`
	UnreadBy      *string         `db:"unread_by" json:"unreadBy"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

// HasParticipant reports whether userID is one of the two participants.
func (t *Thread) HasParticipant(userID string) bool {
	return t.OwnerID == userID || t.ContacterID == userID
}

// Other returns the participant that is not userID.
func (t *Thread) Other(userID string) string {
	if t.OwnerID == userID {
		return t.ContacterID
	}
	return t.OwnerID
}

// IsUnreadBy reports whether userID is the participant with unseen content.
func (t *Thread) IsUnreadBy(userID string) bool {
	return t.UnreadBy != nil && *t.UnreadBy == userID
}

// ThreadMessage is one entry of a thread's ordered message list.
type ThreadMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Sender    *UserRef  `json:"sender,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
