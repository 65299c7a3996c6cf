// Package twitter is a thin client for the X API v2 mentions timeline,
// tweet creation, and v1.1 media upload.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"tweetmint-go/internal/config"
	"tweetmint-go/internal/models"
)

// ErrRateLimited is returned when the feed answers HTTP 429. The cycle
// driver treats it as a soft failure and retries on the next tick.
var ErrRateLimited = errors.New("twitter: rate limited")

// twitterEndpoint is the OAuth2 user-context endpoint pair. x/oauth2
// ships no preset for X, so it is spelled out here.
var twitterEndpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// Client talks to the X API on behalf of the bot account.
type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
	botUserID  string
}

// FetchOptions bound one mentions poll.
type FetchOptions struct {
	SinceID    string
	MaxResults int
}

// NewClient creates a client whose requests carry an OAuth2 user-context
// token refreshed from the configured refresh token.
func NewClient(cfg *config.TwitterConfig) (*Client, error) {
	ctx := context.Background()

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		Endpoint:     twitterEndpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		baseURL:    "https://api.twitter.com",
		uploadURL:  "https://upload.twitter.com",
		botUserID:  cfg.BotUserID,
	}, nil
}

// mentionsResponse mirrors the v2 mentions timeline payload. Everything
// is optional; absent expansions simply yield empty indexes.
type mentionsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		AuthorID    string `json:"author_id"`
		Text        string `json:"text"`
		Attachments struct {
			MediaKeys []string `json:"media_keys"`
		} `json:"attachments"`
	} `json:"data"`
	Includes struct {
		Media []struct {
			MediaKey string `json:"media_key"`
			Type     string `json:"type"`
			URL      string `json:"url"`
		} `json:"media"`
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// FetchMentions returns mentions of the bot account in feed order
// (newest first) along with the media and author handle indexes.
func (c *Client) FetchMentions(ctx context.Context, opts FetchOptions) (*models.MentionBatch, error) {
	params := url.Values{}
	params.Set("max_results", strconv.Itoa(opts.MaxResults))
	params.Set("tweet.fields", "author_id,attachments")
	params.Set("expansions", "author_id,attachments.media_keys")
	params.Set("media.fields", "media_key,type,url")
	params.Set("user.fields", "username")
	if opts.SinceID != "" {
		params.Set("since_id", opts.SinceID)
	}

	endpoint := fmt.Sprintf("%s/2/users/%s/mentions?%s", c.baseURL, c.botUserID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build mentions request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mentions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mentions request returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed mentionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode mentions response: %w", err)
	}

	batch := &models.MentionBatch{
		Media:   make(map[string]models.MediaRef),
		Handles: make(map[string]string),
	}
	for _, t := range parsed.Data {
		if t.ID == "" {
			continue
		}
		batch.Mentions = append(batch.Mentions, models.Mention{
			ID:        t.ID,
			AuthorID:  t.AuthorID,
			Text:      t.Text,
			MediaKeys: t.Attachments.MediaKeys,
		})
	}
	for _, m := range parsed.Includes.Media {
		batch.Media[m.MediaKey] = models.MediaRef{Kind: m.Type, URL: m.URL}
	}
	for _, u := range parsed.Includes.Users {
		batch.Handles[u.ID] = u.Username
	}

	return batch, nil
}

// PostReply posts a reply tweet, optionally attaching uploaded media.
func (c *Client) PostReply(ctx context.Context, text, inReplyToID string, mediaIDs []string) error {
	payload := map[string]interface{}{
		"text": text,
		"reply": map[string]string{
			"in_reply_to_tweet_id": inReplyToID,
		},
	}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string][]string{"media_ids": mediaIDs}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode reply payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("reply request returned %d: %s", resp.StatusCode, string(respBody))
	}

	logrus.Infof("Posted reply to tweet %s", inReplyToID)
	return nil
}

// UploadMedia uploads image bytes via the v1.1 media endpoint and
// returns the media id to attach to a tweet.
func (c *Client) UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", "media")
	if err != nil {
		return "", fmt.Errorf("failed to create media form field: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write media bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize media form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("media upload returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if parsed.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media id")
	}

	return parsed.MediaIDString, nil
}
