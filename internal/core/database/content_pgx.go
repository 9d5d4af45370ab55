package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/markdave123-py/uniconnect/internal/models"
)

// Implementing the db interface for notes

func (c *DatabaseClient) CreateNote(ctx context.Context, note *models.Note) error {
	if note == nil {
		return errors.New("nil note")
	}
	const q = `
		INSERT INTO notes (id, user_id, title, department, file_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := c.db.ExecContext(ctx, q,
		note.ID, note.UserID, note.Title, note.Department, note.FileURL, note.CreatedAt, note.UpdatedAt)
	return err
}

func (c *DatabaseClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	const q = `
		SELECT id, user_id, title, department, file_url, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Department, &n.FileURL, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Implementing the db interface for projects

const projectColumns = `id, user_id, title, description, department, photos, videos, pdf_url, reviews, created_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var (
		p                       models.Project
		photos, videos, reviews []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Department,
		&photos, &videos, &p.PDF, &reviews, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Photos, err = jsonList[string](photos); err != nil {
		return nil, err
	}
	if p.Videos, err = jsonList[string](videos); err != nil {
		return nil, err
	}
	if p.Reviews, err = jsonList[models.Review](reviews); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *DatabaseClient) CreateProject(ctx context.Context, project *models.Project) error {
	if project == nil {
		return errors.New("nil project")
	}
	photos, err := jsonArg(project.Photos)
	if err != nil {
		return err
	}
	videos, err := jsonArg(project.Videos)
	if err != nil {
		return err
	}
	reviews, err := jsonArg(project.Reviews)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO projects (id, user_id, title, description, department, photos, videos, pdf_url, reviews, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9::jsonb, $10)
	`
	_, err = c.db.ExecContext(ctx, q,
		project.ID, project.UserID, project.Title, project.Description, project.Department,
		photos, videos, project.PDF, reviews, project.CreatedAt)
	return err
}

func (c *DatabaseClient) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (c *DatabaseClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// PrependProjectReview puts review at the front of the list in a single statement.
func (c *DatabaseClient) PrependProjectReview(ctx context.Context, projectID string, review models.Review) error {
	review.User = nil
	reviewJSON, err := jsonArg([]models.Review{review})
	if err != nil {
		return err
	}
	const q = `
		UPDATE projects
		SET reviews = $2::jsonb || reviews
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, projectID, reviewJSON)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Implementing the db interface for chat messages

func (c *DatabaseClient) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	const q = `
		INSERT INTO messages (id, user_id, room, text, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.ExecContext(ctx, q, msg.ID, msg.UserID, msg.Room, msg.Text, msg.Timestamp)
	return err
}

func (c *DatabaseClient) ListMessagesByRoom(ctx context.Context, room string) ([]models.Message, error) {
	const q = `
		SELECT id, user_id, room, text, timestamp
		FROM messages
		WHERE room = $1
		ORDER BY timestamp ASC
	`
	rows, err := c.db.QueryContext(ctx, q, room)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Room, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Implementing the db interface for listings

const listingColumns = `id, user_id, title, description, price, image_urls, is_negotiable, created_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var (
		l      models.Listing
		images []byte
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &images, &l.IsNegotiable, &l.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.ImageURLs, err = jsonList[string](images); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *DatabaseClient) CreateListing(ctx context.Context, listing *models.Listing) error {
	if listing == nil {
		return errors.New("nil listing")
	}
	images, err := jsonArg(listing.ImageURLs)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO listings (id, user_id, title, description, price, image_urls, is_negotiable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
	`
	_, err = c.db.ExecContext(ctx, q,
		listing.ID, listing.UserID, listing.Title, listing.Description, listing.Price,
		images, listing.IsNegotiable, listing.CreatedAt)
	return err
}

func (c *DatabaseClient) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (c *DatabaseClient) ListListings(ctx context.Context) ([]models.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Implementing the db interface for events

func (c *DatabaseClient) CreateEvent(ctx context.Context, event *models.Event) error {
	if event == nil {
		return errors.New("nil event")
	}
	media, err := jsonArg(event.Media)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO events (id, user_id, title, description, date, location, media, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
	`
	_, err = c.db.ExecContext(ctx, q,
		event.ID, event.UserID, event.Title, event.Description, event.Date, event.Location,
		media, event.CreatedAt, event.UpdatedAt)
	return err
}

func (c *DatabaseClient) ListEvents(ctx context.Context) ([]models.Event, error) {
	const q = `
		SELECT id, user_id, title, description, date, location, media, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		var (
			e     models.Event
			media []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Date, &e.Location,
			&media, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if e.Media, err = jsonList[string](media); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Implementing the db interface for lost and found

const lostItemColumns = `id, user_id, status, item_name, description, location, image_url, is_resolved, created_at`

func scanLostItem(row interface{ Scan(...any) error }) (*models.LostItem, error) {
	var i models.LostItem
	if err := row.Scan(&i.ID, &i.UserID, &i.Status, &i.ItemName, &i.Description, &i.Location,
		&i.ImageURL, &i.IsResolved, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *DatabaseClient) CreateLostItem(ctx context.Context, item *models.LostItem) error {
	if item == nil {
		return errors.New("nil lost item")
	}
	const q = `
		INSERT INTO lost_items (id, user_id, status, item_name, description, location, image_url, is_resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := c.db.ExecContext(ctx, q,
		item.ID, item.UserID, string(item.Status), item.ItemName, item.Description, item.Location,
		item.ImageURL, item.IsResolved, item.CreatedAt)
	return err
}

func (c *DatabaseClient) GetLostItemByID(ctx context.Context, id string) (*models.LostItem, error) {
	q := `SELECT ` + lostItemColumns + ` FROM lost_items WHERE id = $1`
	i, err := scanLostItem(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return i, err
}

func (c *DatabaseClient) ListUnresolvedLostItems(ctx context.Context) ([]models.LostItem, error) {
	q := `SELECT ` + lostItemColumns + ` FROM lost_items WHERE is_resolved = false ORDER BY created_at DESC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LostItem{}
	for rows.Next() {
		i, err := scanLostItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}
