package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		uploadURL:  srv.URL,
		botUserID:  "42",
	}
}

func TestFetchMentionsParsesBatch(t *testing.T) {
	payload := map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"id":        "1002",
				"author_id": "u1",
				"text":      "make me a coin",
				"attachments": map[string]interface{}{
					"media_keys": []string{"k1"},
				},
			},
			{
				"id":        "1001",
				"author_id": "u2",
				"text":      "hello",
			},
		},
		"includes": map[string]interface{}{
			"media": []map[string]interface{}{
				{"media_key": "k1", "type": "photo", "url": "https://pbs.example/img.png"},
			},
			"users": []map[string]interface{}{
				{"id": "u1", "username": "alice"},
				{"id": "u2", "username": "bob"},
			},
		},
	}

	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	batch, err := client.FetchMentions(context.Background(), FetchOptions{SinceID: "1000", MaxResults: 25})
	require.NoError(t, err)

	assert.Equal(t, []string{"1000"}, gotQuery["since_id"])
	assert.Equal(t, []string{"25"}, gotQuery["max_results"])

	require.Len(t, batch.Mentions, 2)
	assert.Equal(t, "1002", batch.Mentions[0].ID)
	assert.Equal(t, []string{"k1"}, batch.Mentions[0].MediaKeys)
	assert.Equal(t, "hello", batch.Mentions[1].Text)

	assert.Equal(t, "photo", batch.Media["k1"].Kind)
	assert.Equal(t, "https://pbs.example/img.png", batch.Media["k1"].URL)
	assert.Equal(t, "alice", batch.Handles["u1"])
	assert.Equal(t, "bob", batch.Handles["u2"])
}

func TestFetchMentionsOmitsSinceIDOnFirstRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since_id"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	batch, err := client.FetchMentions(context.Background(), FetchOptions{MaxResults: 5})
	require.NoError(t, err)
	assert.Empty(t, batch.Mentions)
}

func TestFetchMentionsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.FetchMentions(context.Background(), FetchOptions{MaxResults: 5})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestPostReply(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"2001"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	err := client.PostReply(context.Background(), "done!", "1002", []string{"m1"})
	require.NoError(t, err)

	assert.Equal(t, "done!", gotBody["text"])
	reply := gotBody["reply"].(map[string]interface{})
	assert.Equal(t, "1002", reply["in_reply_to_tweet_id"])
	media := gotBody["media"].(map[string]interface{})
	assert.Equal(t, []interface{}{"m1"}, media["media_ids"])
}

func TestUploadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.1/media/upload.json", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("media")
		require.NoError(t, err)
		assert.NotZero(t, header.Size)
		w.Write([]byte(`{"media_id_string":"7777"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	id, err := client.UploadMedia(context.Background(), []byte{1, 2, 3}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "7777", id)
}
