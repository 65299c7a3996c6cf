package pipeline

import (
	"context"

	"tweetmint-go/internal/models"
	"tweetmint-go/internal/twitter"
)

// Feed is the social-mentions transport.
type Feed interface {
	FetchMentions(ctx context.Context, opts twitter.FetchOptions) (*models.MentionBatch, error)
	PostReply(ctx context.Context, text, inReplyToID string, mediaIDs []string) error
	UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Classifier decides whether a mention asks for a coin.
type Classifier interface {
	Classify(ctx context.Context, text string) bool
}

// Extractor derives coin parameters from mention text. A nil result with
// nil error means the text could not be parsed; both cases are retried.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.CoinParams, error)
}

// MediaResolver locates and downloads the required image attachment.
type MediaResolver interface {
	FindImage(mention models.Mention, batch *models.MentionBatch) *models.MediaRef
	Download(ctx context.Context, url string) ([]byte, error)
}

// Minter performs the external creation protocol.
type Minter interface {
	Create(ctx context.Context, req models.CoinRequest) models.MintResult
}

// Ledger is the durable dedup ledger plus the persisted pipeline state.
type Ledger interface {
	IsProcessed(tweetID string) (bool, error)
	MarkProcessed(tweetID string) error
	LoadState() (*models.BotState, error)
	SaveState(state *models.BotState) error
	LogReply(tweetID, status, mintAddress, errorMsg string) error
}
