package models

import (
	"time"
)

// User represents a registered member of the university community.
type User struct {
	ID                string    `db:"id" json:"id"`
	FullName          string    `db:"full_name" json:"fullName"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Department        string    `db:"department" json:"department"`
	ProfilePictureURL string    `db:"profile_picture_url" json:"profilePictureUrl"`
	Bio               string    `db:"bio" json:"bio"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Ref returns the display reference for the user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, FullName: u.FullName}
}

// UserRef is a resolved soft reference to a user.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// Owned is implemented by documents that carry an owner id resolved at read time.
type Owned interface {
	OwnerID() string
	SetOwner(ref *UserRef)
}

// Note is a shared study note uploaded by a user.
type Note struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	User       *UserRef  `db:"-" json:"user,omitempty"`
	Title      string    `db:"title" json:"title"`
	Department string    `db:"department" json:"department"`
	FileURL    string    `db:"file_url" json:"fileUrl"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (n *Note) OwnerID() string       { return n.UserID }
func (n *Note) SetOwner(ref *UserRef) { n.User = ref }

// Project is a showcased student project; reviews are kept most-recent-first.
type Project struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	User        *UserRef  `db:"-" json:"user,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Department  string    `db:"department" json:"department"`
	Photos      []string  `db:"photos" json:"photos"`
	Videos      []string  `db:"videos" json:"videos"`
	PDF         string    `db:"pdf_url" json:"pdf"`
	Reviews     []Review  `db:"reviews" json:"reviews"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

func (p *Project) OwnerID() string       { return p.UserID }
func (p *Project) SetOwner(ref *UserRef) { p.User = ref }

// Review is embedded in a project.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	User      *UserRef  `json:"user,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicRoom is the chat room every user can read and post to.
const PublicRoom = "Public"

// Message is a chat room message. Room is PublicRoom or a department name.
type Message struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	User      *UserRef  `db:"-" json:"user,omitempty"`
	Text      string    `db:"text" json:"text"`
	Room      string    `db:"room" json:"room"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

func (m *Message) OwnerID() string       { return m.UserID }
func (m *Message) SetOwner(ref *UserRef) { m.User = ref }

// Listing is a marketplace item for sale. Price is free text ("500", "negotiable", ...).
type Listing struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	User         *UserRef  `db:"-" json:"user,omitempty"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Price        string    `db:"price" json:"price"`
	ImageURLs    []string  `db:"image_urls" json:"imageUrls"`
	IsNegotiable bool      `db:"is_negotiable" json:"isNegotiable"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func (l *Listing) OwnerID() string       { return l.UserID }
func (l *Listing) SetOwner(ref *UserRef) { l.User = ref }

// Event is a campus event announcement.
type Event struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	User        *UserRef  `db:"-" json:"user,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	Location    string    `db:"location" json:"location"`
	Media       []string  `db:"media" json:"media"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (e *Event) OwnerID() string       { return e.UserID }
func (e *Event) SetOwner(ref *UserRef) { e.User = ref }

// LostItemStatus is either LostStatus or FoundStatus.
type LostItemStatus string

const (
	LostStatus  LostItemStatus = "Lost"
	FoundStatus LostItemStatus = "Found"
)

// Valid reports whether s is one of the known statuses.
func (s LostItemStatus) Valid() bool {
	return s == LostStatus || s == FoundStatus
}

// LostItem is a lost-and-found post. IsResolved has no writer yet; lists only show unresolved items.
type LostItem struct {
	ID          string         `db:"id" json:"id"`
	UserID      string         `db:"user_id" json:"userId"`
	User        *UserRef       `db:"-" json:"user,omitempty"`
	Status      LostItemStatus `db:"status" json:"status"`
	ItemName    string         `db:"item_name" json:"itemName"`
	Description string         `db:"description" json:"description"`
	Location    string         `db:"location" json:"location"`
	ImageURL    string         `db:"image_url" json:"imageUrl"`
	IsResolved  bool           `db:"is_resolved" json:"isResolved"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

func (i *LostItem) OwnerID() string       { return i.UserID }
func (i *LostItem) SetOwner(ref *UserRef) { i.User = ref }
