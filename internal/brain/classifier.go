package brain

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const classifierPrompt = `You are a classifier for a bot that creates meme coins when asked on social media.

Decide whether the tweet is asking the bot to create/launch/mint a coin or token.

Answer with exactly one word: "yes" or "no". No punctuation, no explanation.`

// Classifier decides whether a mention text is a coin-creation request.
type Classifier struct {
	client Client
}

func NewClassifier(client Client) *Classifier {
	return &Classifier{client: client}
}

// Classify is fail-closed: any error or answer other than a clear "yes"
// means the text is not treated as a creation request.
func (c *Classifier) Classify(ctx context.Context, text string) bool {
	answer, err := c.client.Complete(ctx, classifierPrompt, text)
	if err != nil {
		logrus.Warnf("Classifier call failed, treating as not a request: %v", err)
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.Trim(answer, `."'!`)
	return answer == "yes"
}
