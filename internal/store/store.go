package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetmint-go/internal/models"
)

// Store is the gorm-backed persistence layer: the dedup ledger, the
// singleton bot state row, and the reply audit log.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsProcessed reports whether a mention already reached a terminal outcome.
func (s *Store) IsProcessed(tweetID string) (bool, error) {
	var processed models.ProcessedMention
	result := s.db.Where("tweet_id = ?", tweetID).First(&processed)
	if result.Error == nil {
		return true, nil
	}
	if result.Error == gorm.ErrRecordNotFound {
		return false, nil
	}
	return false, fmt.Errorf("database error checking processed mention: %w", result.Error)
}

// MarkProcessed commits a mention to the ledger. Committing the same id
// twice is a no-op: the insert is ON CONFLICT DO NOTHING against the
// unique tweet_id index, so exactly one record ever exists per mention.
func (s *Store) MarkProcessed(tweetID string) error {
	processed := models.ProcessedMention{
		TweetID:     tweetID,
		ProcessedAt: time.Now(),
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&processed)
	if result.Error != nil {
		return fmt.Errorf("failed to mark mention as processed: %w", result.Error)
	}
	return nil
}

// LoadState fetches the singleton bot state row, creating it on first run.
func (s *Store) LoadState() (*models.BotState, error) {
	state := models.BotState{ID: 1}
	result := s.db.Where(models.BotState{ID: 1}).FirstOrCreate(&state)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load bot state: %w", result.Error)
	}
	return &state, nil
}

// SaveState persists the cursor and budget counters.
func (s *Store) SaveState(state *models.BotState) error {
	state.ID = 1
	if err := s.db.Save(state).Error; err != nil {
		return fmt.Errorf("failed to save bot state: %w", err)
	}
	return nil
}

// LogReply records one reply attempt
func (s *Store) LogReply(tweetID, status, mintAddress, errorMsg string) error {
	log := models.ReplyLog{
		TweetID:     tweetID,
		Status:      status,
		MintAddress: mintAddress,
		ErrorMsg:    errorMsg,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&log).Error; err != nil {
		return fmt.Errorf("failed to log reply attempt: %w", err)
	}
	return nil
}

// GetReplyLogs returns reply attempts, newest first
func (s *Store) GetReplyLogs(limit, offset int) ([]models.ReplyLog, error) {
	var logs []models.ReplyLog
	result := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get reply logs: %w", result.Error)
	}
	return logs, nil
}
