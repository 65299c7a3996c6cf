// Package pipeline turns the unordered, possibly-duplicated mentions
// stream into at-most-once coin creations under a daily reply budget.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tweetmint-go/internal/budget"
	"tweetmint-go/internal/metrics"
	"tweetmint-go/internal/models"
	"tweetmint-go/internal/twitter"
)

// outcome is the terminal state of the per-mention machine.
type outcome int

const (
	// outcomeRetry leaves the mention uncommitted; the cursor does not
	// pass it and the next cycle fetches it again.
	outcomeRetry outcome = iota
	// outcomeTerminal means the mention is committed to the ledger.
	outcomeTerminal
	// outcomeBudgetStop aborts the rest of the batch: the daily budget
	// was hit at a point where a reply would have been sent.
	outcomeBudgetStop
)

// Options are the pipeline knobs taken from configuration.
type Options struct {
	BotUserID        string
	DailyReplyMax    int
	PageSize         int
	FirstRunPageSize int
}

// Pipeline drives one polling cycle over its collaborators.
type Pipeline struct {
	feed       Feed
	classifier Classifier
	extractor  Extractor
	media      MediaResolver
	minter     Minter
	ledger     Ledger
	metrics    *metrics.Metrics
	opts       Options
}

func New(feed Feed, classifier Classifier, extractor Extractor, media MediaResolver, minter Minter, ledger Ledger, m *metrics.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		feed:       feed,
		classifier: classifier,
		extractor:  extractor,
		media:      media,
		minter:     minter,
		ledger:     ledger,
		metrics:    m,
		opts:       opts,
	}
}

// RunCycle executes one full polling cycle. Mentions are processed
// strictly sequentially, oldest first. No stage error escapes the cycle;
// the returned error only reports fetch or persistence problems so the
// scheduler can log them.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	start := time.Now()
	p.metrics.CycleCount.Inc()

	state, err := p.ledger.LoadState()
	if err != nil {
		return err
	}

	gate := budget.NewGate(p.opts.DailyReplyMax, state.RepliesToday, state.LastResetDate)
	if gate.ResetIfNewDay() {
		state.RepliesToday = gate.Count()
		state.LastResetDate = gate.LastResetDate()
		if err := p.ledger.SaveState(state); err != nil {
			return err
		}
		logrus.Infof("Daily reply budget reset for %s", gate.LastResetDate())
	}
	p.metrics.RepliesToday.Set(float64(gate.Count()))

	if !gate.Allow() {
		logrus.Info("Daily reply budget exhausted, skipping cycle")
		p.metrics.BudgetDenials.Inc()
		return nil
	}

	fetchOpts := twitter.FetchOptions{
		SinceID:    state.LastSeenMentionID,
		MaxResults: p.opts.PageSize,
	}
	if state.LastSeenMentionID == "" {
		// Cold start: a small page avoids a reply storm over history.
		fetchOpts.MaxResults = p.opts.FirstRunPageSize
	}

	batch, err := p.feed.FetchMentions(ctx, fetchOpts)
	if err != nil {
		if errors.Is(err, twitter.ErrRateLimited) {
			logrus.Warn("Mentions feed rate limited, retrying next cycle")
			p.metrics.RateLimitHits.Inc()
			return nil
		}
		return fmt.Errorf("failed to fetch mentions: %w", err)
	}

	p.metrics.MentionCount.Add(float64(len(batch.Mentions)))
	if len(batch.Mentions) == 0 {
		logrus.Debug("No new mentions")
		return nil
	}
	logrus.Infof("Fetched %d new mentions", len(batch.Mentions))

	// The feed delivers newest first; process oldest first so a reply
	// referencing an earlier mention is never skipped for a later one.
	// The cursor only advances past consecutively terminal mentions:
	// anything left for retry stays inside the next fetch window.
	// Once the gate closes, remaining mentions are deferred without
	// spending classification or download work on them.
	watermark := state.LastSeenMentionID
	watermarkOpen := true

	for i := len(batch.Mentions) - 1; i >= 0; i-- {
		mention := batch.Mentions[i]
		result := outcomeBudgetStop
		if gate.Allow() {
			result = p.processMention(ctx, mention, batch, gate)
		}
		if result == outcomeTerminal && watermarkOpen {
			watermark = mention.ID
		} else {
			watermarkOpen = false
		}
		if result == outcomeBudgetStop {
			logrus.Info("Daily reply budget hit mid-cycle, deferring remaining mentions")
			p.metrics.BudgetDenials.Inc()
			break
		}
	}

	state.LastSeenMentionID = watermark
	state.RepliesToday = gate.Count()
	state.LastResetDate = gate.LastResetDate()
	if err := p.ledger.SaveState(state); err != nil {
		return err
	}

	p.metrics.RepliesToday.Set(float64(gate.Count()))
	p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	return nil
}

// processMention runs one mention through the per-mention state machine.
func (p *Pipeline) processMention(ctx context.Context, mention models.Mention, batch *models.MentionBatch, gate *budget.Gate) outcome {
	log := logrus.WithField("tweet_id", mention.ID)

	if mention.AuthorID == p.opts.BotUserID {
		return p.commit(mention.ID, log, "self-authored mention")
	}

	processed, err := p.ledger.IsProcessed(mention.ID)
	if err != nil {
		log.Errorf("Failed to check dedup ledger: %v", err)
		return outcomeRetry
	}
	if processed {
		log.Debug("Mention already processed, skipping")
		return outcomeTerminal
	}

	if !p.classifier.Classify(ctx, mention.Text) {
		return p.commit(mention.ID, log, "not a creation request")
	}

	params, err := p.extractor.Extract(ctx, mention.Text)
	if err != nil {
		log.Warnf("Parameter extraction failed: %v", err)
		return outcomeRetry
	}
	if params == nil {
		log.Warn("Parameter extraction produced no usable fields")
		return outcomeRetry
	}

	handle := batch.Handles[mention.AuthorID]

	ref := p.media.FindImage(mention, batch)
	if ref == nil {
		if !gate.Allow() {
			return outcomeBudgetStop
		}
		if err := p.feed.PostReply(ctx, ComposeMissingImageReply(handle), mention.ID, nil); err != nil {
			log.Errorf("Failed to send missing-image reply: %v", err)
			p.ledger.LogReply(mention.ID, "failure", "", err.Error())
			return outcomeRetry
		}
		gate.Record()
		p.metrics.RepliesSent.Inc()
		p.ledger.LogReply(mention.ID, "skipped", "", "missing image")
		return p.commit(mention.ID, log, "missing image, requester notified")
	}

	imageBytes, err := p.media.Download(ctx, ref.URL)
	if err != nil {
		log.Warnf("Image download failed: %v", err)
		return outcomeRetry
	}

	// A successful mint forces a reply, so the gate is checked before
	// the creation call; nothing else consumes budget in between.
	if !gate.Allow() {
		return outcomeBudgetStop
	}

	result := p.minter.Create(ctx, models.CoinRequest{
		Name:            params.Name,
		Symbol:          params.Symbol,
		Description:     params.Description,
		ImageBytes:      imageBytes,
		RequesterID:     mention.AuthorID,
		RequesterHandle: handle,
	})
	if !result.Success {
		// No reply was issued, so the mention stays uncommitted and the
		// next cycle retries it.
		p.metrics.MintFailures.Inc()
		p.ledger.LogReply(mention.ID, "failure", "", "creation failed")
		log.Warn("Coin creation failed, will retry next cycle")
		return outcomeRetry
	}
	p.metrics.MintSuccesses.Inc()

	text := ComposeSuccessReply(handle, params.Name, params.Symbol, result.MintAddress)

	var mediaIDs []string
	if mediaID, err := p.feed.UploadMedia(ctx, imageBytes, http.DetectContentType(imageBytes)); err != nil {
		log.Warnf("Media upload for reply failed, sending text only: %v", err)
	} else {
		mediaIDs = []string{mediaID}
	}

	// The coin exists now: commit whatever happens to the reply,
	// otherwise a retry would mint a second coin.
	if err := p.feed.PostReply(ctx, text, mention.ID, mediaIDs); err != nil {
		log.Errorf("Failed to send success reply: %v", err)
		p.ledger.LogReply(mention.ID, "failure", result.MintAddress, err.Error())
		return p.commit(mention.ID, log, "coin created, reply delivery failed")
	}

	gate.Record()
	p.metrics.RepliesSent.Inc()
	p.ledger.LogReply(mention.ID, "success", result.MintAddress, "")
	return p.commit(mention.ID, log, "coin created")
}

// commit durably records the terminal outcome before it is considered
// final. A commit failure downgrades the outcome to a retry.
func (p *Pipeline) commit(tweetID string, log *logrus.Entry, reason string) outcome {
	if err := p.ledger.MarkProcessed(tweetID); err != nil {
		log.Errorf("Failed to commit mention: %v", err)
		return outcomeRetry
	}
	log.Infof("Mention committed: %s", reason)
	return outcomeTerminal
}
