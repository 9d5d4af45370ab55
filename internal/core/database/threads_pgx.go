package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/markdave123-py/uniconnect/internal/models"
)

const threadColumns = `id, resource_id, owner_id, contacter_id, messages, last_message_at, unread_by, created_at`

// threadTable maps a kind to its conversation table. Only constant names reach the SQL text.
func threadTable(kind models.ThreadKind) (string, error) {
	switch kind {
	case models.ListingThread:
		return "conversations", nil
	case models.LostItemThread:
		return "lost_item_conversations", nil
	}
	return "", fmt.Errorf("unknown thread kind %q", kind)
}

func scanThread(kind models.ThreadKind, row interface{ Scan(...any) error }) (*models.Thread, error) {
	var (
		t        models.Thread
		messages []byte
		unread   sql.NullString
	)
	if err := row.Scan(&t.ID, &t.ResourceID, &t.OwnerID, &t.ContacterID, &messages,
		&t.LastMessageAt, &unread, &t.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.Messages, err = jsonList[models.ThreadMessage](messages); err != nil {
		return nil, err
	}
	if unread.Valid {
		t.UnreadBy = &unread.String
	}
	t.Kind = kind
	return &t, nil
}

func (c *DatabaseClient) queryThread(ctx context.Context, kind models.ThreadKind, where string, args ...any) (*models.Thread, error) {
	table, err := threadTable(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, threadColumns, table, where)
	t, err := scanThread(kind, c.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// EnsureThread inserts the thread with its first message in one statement. On a pair conflict
// nothing is written and the existing row is returned instead.
func (c *DatabaseClient) EnsureThread(ctx context.Context, t *models.Thread) (*models.Thread, bool, error) {
	if t == nil {
		return nil, false, errors.New("nil thread")
	}
	table, err := threadTable(t.Kind)
	if err != nil {
		return nil, false, err
	}
	first := make([]models.ThreadMessage, len(t.Messages))
	for i, m := range t.Messages {
		m.Sender = nil
		first[i] = m
	}
	messages, err := jsonArg(first)
	if err != nil {
		return nil, false, err
	}
	q := fmt.Sprintf(`
		INSERT INTO %s (id, resource_id, owner_id, contacter_id, messages, last_message_at, unread_by, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)
		ON CONFLICT (resource_id, owner_id, contacter_id) DO NOTHING
		RETURNING %s
	`, table, threadColumns)
	created, err := scanThread(t.Kind, c.db.QueryRowContext(ctx, q,
		t.ID, t.ResourceID, t.OwnerID, t.ContacterID, messages, t.LastMessageAt, t.UnreadBy, t.CreatedAt))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	stored, err := c.FindThread(ctx, t.Kind, t.ResourceID, t.OwnerID, t.ContacterID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("thread for resource %s vanished after insert", t.ResourceID)
	}
	return stored, false, nil
}

func (c *DatabaseClient) FindThread(ctx context.Context, kind models.ThreadKind, resourceID, ownerID, contacterID string) (*models.Thread, error) {
	return c.queryThread(ctx, kind, `resource_id = $1 AND owner_id = $2 AND contacter_id = $3`,
		resourceID, ownerID, contacterID)
}

func (c *DatabaseClient) FindLatestThreadForParticipant(ctx context.Context, kind models.ThreadKind, resourceID, userID string) (*models.Thread, error) {
	return c.queryThread(ctx, kind,
		`resource_id = $1 AND (owner_id = $2 OR contacter_id = $2) ORDER BY last_message_at DESC, created_at DESC LIMIT 1`,
		resourceID, userID)
}

func (c *DatabaseClient) GetThreadByID(ctx context.Context, kind models.ThreadKind, id string) (*models.Thread, error) {
	return c.queryThread(ctx, kind, `id = $1`, id)
}

// AppendThreadMessage concatenates onto the JSONB list in the UPDATE itself, so two concurrent
// sends to the same thread both land; unreadBy and lastMessageAt are last-write-wins.
func (c *DatabaseClient) AppendThreadMessage(ctx context.Context, kind models.ThreadKind, threadID string, msg models.ThreadMessage, unreadBy string, at time.Time) (*models.Thread, error) {
	table, err := threadTable(kind)
	if err != nil {
		return nil, err
	}
	msg.Sender = nil
	msgJSON, err := jsonArg([]models.ThreadMessage{msg})
	if err != nil {
		return nil, err
	}
	var unread sql.NullString
	if unreadBy != "" {
		unread = sql.NullString{String: unreadBy, Valid: true}
	}
	q := fmt.Sprintf(`
		UPDATE %s
		SET messages = messages || $2::jsonb, unread_by = $3, last_message_at = $4
		WHERE id = $1
		RETURNING %s
	`, table, threadColumns)
	t, err := scanThread(kind, c.db.QueryRowContext(ctx, q, threadID, msgJSON, unread, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (c *DatabaseClient) ListThreadsUnreadBy(ctx context.Context, kind models.ThreadKind, userID string) ([]models.Thread, error) {
	table, err := threadTable(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE unread_by = $1 ORDER BY last_message_at DESC`, threadColumns, table)
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Thread{}
	for rows.Next() {
		t, err := scanThread(kind, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) ClearThreadUnread(ctx context.Context, kind models.ThreadKind, threadID, userID string) error {
	table, err := threadTable(kind)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE %s SET unread_by = NULL WHERE id = $1 AND unread_by = $2`, table)
	_, err = c.db.ExecContext(ctx, q, threadID, userID)
	return err
}
