package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tweetmint-go/internal/models"
)

func newTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return New(db)
}

func TestMarkProcessedIsIdempotent(t *testing.T) {
	st := newTestStore(t)

	processed, err := st.IsProcessed("1001")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, st.MarkProcessed("1001"))
	require.NoError(t, st.MarkProcessed("1001"))

	processed, err = st.IsProcessed("1001")
	require.NoError(t, err)
	assert.True(t, processed)

	var count int64
	require.NoError(t, st.db.Model(&models.ProcessedMention{}).Where("tweet_id = ?", "1001").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStateRoundTrip(t *testing.T) {
	st := newTestStore(t)

	state, err := st.LoadState()
	require.NoError(t, err)
	assert.Equal(t, "", state.LastSeenMentionID)
	assert.Equal(t, 0, state.RepliesToday)

	state.LastSeenMentionID = "2002"
	state.RepliesToday = 3
	state.LastResetDate = "2026-08-30"
	require.NoError(t, st.SaveState(state))

	reloaded, err := st.LoadState()
	require.NoError(t, err)
	assert.Equal(t, "2002", reloaded.LastSeenMentionID)
	assert.Equal(t, 3, reloaded.RepliesToday)
	assert.Equal(t, "2026-08-30", reloaded.LastResetDate)
}

func TestReplyLogs(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.LogReply("1001", "success", "Mint111", ""))
	require.NoError(t, st.LogReply("1002", "failure", "", "creation failed"))

	logs, err := st.GetReplyLogs(10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	byTweet := map[string]models.ReplyLog{}
	for _, l := range logs {
		byTweet[l.TweetID] = l
	}
	assert.Equal(t, "success", byTweet["1001"].Status)
	assert.Equal(t, "Mint111", byTweet["1001"].MintAddress)
	assert.Equal(t, "failure", byTweet["1002"].Status)
	assert.Equal(t, "creation failed", byTweet["1002"].ErrorMsg)
}
