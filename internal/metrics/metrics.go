package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	CycleCount     prometheus.Counter
	MentionCount   prometheus.Counter
	RepliesSent    prometheus.Counter
	MintSuccesses  prometheus.Counter
	MintFailures   prometheus.Counter
	BudgetDenials  prometheus.Counter
	RateLimitHits  prometheus.Counter
	ProcessingTime prometheus.Histogram
	RepliesToday   prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		CycleCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_cycle_count",
			Help: "Total number of mention polling cycles",
		}),
		MentionCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_mention_count",
			Help: "Total number of mentions fetched, including refetches of mentions held back for retry",
		}),
		RepliesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_replies_sent",
			Help: "Total number of replies posted",
		}),
		MintSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_mint_successes",
			Help: "Total number of successful coin creations",
		}),
		MintFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_mint_failures",
			Help: "Total number of failed coin creations",
		}),
		BudgetDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_budget_denials",
			Help: "Total number of actions denied by the daily reply budget",
		}),
		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tweetmint_rate_limit_hits",
			Help: "Total number of feed rate-limit responses",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tweetmint_cycle_duration_seconds",
			Help:    "Time spent on one mention processing cycle",
			Buckets: prometheus.DefBuckets,
		}),
		RepliesToday: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tweetmint_replies_today",
			Help: "Replies sent on the current calendar day",
		}),
	}
}
