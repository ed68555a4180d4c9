// Package metrics defines the Prometheus collectors for the Scorecard API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	ScorecardSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorecard_saves_total",
			Help: "Scorecard player replacements by outcome",
		},
		[]string{"outcome"},
	)

	ScorecardDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scorecard_deletes_total",
			Help: "Scorecards deleted",
		},
	)

	FriendSummariesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "friend_scorecard_summaries_removed_total",
			Help: "Friends whose scorecard summary was removed by a scorecard delete",
		},
	)
)

// Save outcomes.
const (
	OutcomeSaved    = "saved"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Middleware records the duration of every request under its route pattern
// (e.g. /api/scorecards/:id) so ids do not explode the label space.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		APIRequestDuration.WithLabelValues(
			c.Route().Path,
			c.Method(),
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}
