package objectclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/markdave123-py/uniconnect/internal/core"
)

// PlaceholderClient discards uploaded bytes and hands back a placeholder image URL, so the
// upload flow works end to end when no object storage is configured.
type PlaceholderClient struct {
	BaseURL string
}

var _ core.ObjectClient = (*PlaceholderClient)(nil)

func NewPlaceholderClient() *PlaceholderClient {
	return &PlaceholderClient{BaseURL: "https://placehold.co/400x300/1f2937/9ca3af"}
}

func (c *PlaceholderClient) UploadFile(ctx context.Context, key string, data io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, data); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	label := strings.TrimSuffix(path.Base(key), path.Ext(key))
	if label == "" || label == "." || label == "/" {
		label = "File"
	}
	return c.BaseURL + "?text=" + url.QueryEscape(label), nil
}
