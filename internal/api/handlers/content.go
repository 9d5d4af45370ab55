package handlers

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
)

// ownedSlice exposes the elements of items as models.Owned so their owners can be attached in place.
func ownedSlice[T any, P interface {
	*T
	models.Owned
}](items []T) []models.Owned {
	out := make([]models.Owned, len(items))
	for i := range items {
		out[i] = P(&items[i])
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// requireUser fails with NotFound when the caller's account no longer exists.
func requireUser(ctx context.Context, db core.DbClient, userID string) error {
	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return core.NotFound("User not found")
	}
	return nil
}

// looseString accepts a JSON string or a bare number, so `"price": 300` and `"price": "300"` both work.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = looseString(n.String())
	}
	return nil
}
