package models

import (
	"time"

	"gorm.io/gorm"
)

// ProcessedMention records a mention that reached a terminal outcome.
// A tweet ID present in this table is never processed again.
type ProcessedMention struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	TweetID     string         `json:"tweet_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	ProcessedAt time.Time      `json:"processed_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for ProcessedMention
func (ProcessedMention) TableName() string {
	return "processed_mentions"
}

// BotState is a singleton row holding the mention cursor and the daily
// reply budget counter so both survive restarts.
type BotState struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	LastSeenMentionID string    `json:"last_seen_mention_id" gorm:"type:varchar(64)"`
	RepliesToday      int       `json:"replies_today" gorm:"not null;default:0"`
	LastResetDate     string    `json:"last_reset_date" gorm:"type:varchar(10)"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for BotState
func (BotState) TableName() string {
	return "bot_state"
}

// ReplyLog records every reply attempt for auditing
type ReplyLog struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	TweetID     string         `json:"tweet_id" gorm:"type:varchar(64);not null;index"`
	Status      string         `json:"status" gorm:"type:varchar(50);not null"` // success, failure, skipped
	MintAddress string         `json:"mint_address" gorm:"type:varchar(64)"`
	ErrorMsg    string         `json:"error_msg" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for ReplyLog
func (ReplyLog) TableName() string {
	return "reply_logs"
}

// Mention is one inbound tweet mentioning the bot account.
// Identity is ID; the struct is immutable once fetched.
type Mention struct {
	ID        string   `json:"id"`
	AuthorID  string   `json:"author_id"`
	Text      string   `json:"text"`
	MediaKeys []string `json:"media_keys"`
}

// MediaRef points at one attachment from the batch includes.
type MediaRef struct {
	Kind string `json:"kind"` // photo, video, animated_gif
	URL  string `json:"url"`
}

// MentionBatch is the result of one mentions poll: the tweets in feed
// order (newest first) plus the expansion indexes needed to resolve
// attachments and author handles.
type MentionBatch struct {
	Mentions []Mention           `json:"mentions"`
	Media    map[string]MediaRef `json:"media"`   // media key -> attachment
	Handles  map[string]string   `json:"handles"` // author id -> @handle
}

// CoinParams are the creation parameters extracted from a mention.
type CoinParams struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// CoinRequest is everything the creation service needs for one mint.
type CoinRequest struct {
	Name            string
	Symbol          string
	Description     string
	ImageBytes      []byte
	RequesterID     string
	RequesterHandle string
}

// MintResult is the outcome of a creation attempt. A failed attempt
// carries no partial data.
type MintResult struct {
	Success     bool   `json:"success"`
	MintAddress string `json:"mint_address,omitempty"`
}

// ReplyLogResponse is the API representation of a ReplyLog row
type ReplyLogResponse struct {
	ID          uint      `json:"id"`
	TweetID     string    `json:"tweet_id"`
	Status      string    `json:"status"`
	MintAddress string    `json:"mint_address,omitempty"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StateResponse is the API representation of the bot state row
type StateResponse struct {
	LastSeenMentionID string `json:"last_seen_mention_id"`
	RepliesToday      int    `json:"replies_today"`
	LastResetDate     string `json:"last_reset_date"`
	DailyReplyMax     int    `json:"daily_reply_max"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
