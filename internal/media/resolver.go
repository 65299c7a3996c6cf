// Package media locates and downloads the image attachment a coin
// creation requires.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"tweetmint-go/internal/models"
)

// maxDownloadBytes caps an attachment download; the creation service
// rejects anything larger anyway.
const maxDownloadBytes = 10 << 20

// Resolver finds photo attachments in a mention batch and fetches them.
type Resolver struct {
	httpClient *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FindImage returns the first photo attachment of a mention, or nil when
// the mention carries no usable image.
func (r *Resolver) FindImage(mention models.Mention, batch *models.MentionBatch) *models.MediaRef {
	for _, key := range mention.MediaKeys {
		ref, ok := batch.Media[key]
		if !ok {
			continue
		}
		if ref.Kind == "photo" && ref.URL != "" {
			return &ref
		}
	}
	return nil
}

// Download fetches the image bytes. A failure aborts only the current
// mention, so the error is propagated rather than swallowed.
func (r *Resolver) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image download returned empty body")
	}

	return data, nil
}
