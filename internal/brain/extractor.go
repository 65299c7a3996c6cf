package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"tweetmint-go/internal/models"
)

const extractorPrompt = `You extract coin-creation parameters from a tweet asking a bot to create a meme coin.

Output as JSON only, no other text:
{
  "name": "the coin name",
  "symbol": "the ticker symbol",
  "description": "optional one-line description, empty string if none given"
}`

// reservedWords are stripped from extracted fields; the creation service
// rejects names that restate them.
var reservedWords = regexp.MustCompile(`(?i)(token|coin)`)

// Extractor derives structured coin parameters from free mention text.
type Extractor struct {
	client Client
}

func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the sanitized parameters, or nil when the model output
// is malformed or a required field is empty after sanitization. A nil
// result is a retryable outcome, not an error.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.CoinParams, error) {
	raw, err := e.client.Complete(ctx, extractorPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("extractor call failed: %w", err)
	}

	content := cleanJSONResponse(raw)

	var parsed struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		logrus.Warnf("Extractor returned unparseable JSON: %v", err)
		return nil, nil
	}

	params := &models.CoinParams{
		Name:        Sanitize(parsed.Name),
		Symbol:      Sanitize(parsed.Symbol),
		Description: strings.TrimSpace(parsed.Description),
	}
	if params.Name == "" || params.Symbol == "" {
		logrus.Warn("Extractor produced empty name or symbol after sanitization")
		return nil, nil
	}

	return params, nil
}

// Sanitize removes the reserved "token"/"coin" substrings
// case-insensitively and collapses the leftover whitespace.
func Sanitize(s string) string {
	s = reservedWords.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// cleanJSONResponse strips markdown code fences and surrounding prose
// from a model response before JSON parsing.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
