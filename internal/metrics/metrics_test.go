package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/scorecards/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	before := testutil.CollectAndCount(APIRequestDuration)
	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/scorecards/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	// Three ids, one series.
	assert.Equal(t, before+1, testutil.CollectAndCount(APIRequestDuration))
}

func TestSaveOutcomes(t *testing.T) {
	before := testutil.ToFloat64(ScorecardSaves.WithLabelValues(OutcomeInvalid))
	ScorecardSaves.WithLabelValues(OutcomeInvalid).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ScorecardSaves.WithLabelValues(OutcomeInvalid)))
}
