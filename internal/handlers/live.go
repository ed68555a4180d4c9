package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/store"
	"github.com/trentd187/golf-scorecards/internal/websocket"
)

// WatchScorecard guards GET /ws/scorecards/:id. Only WebSocket upgrades for a scorecard
// the caller owns get through to websocket.Serve; everything else is refused before the
// connection is upgraded.
func WatchScorecard(scorecards store.Scorecards) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return scorecardNotFound(c)
		}

		_, err = scorecards.GetScorecard(c.UserContext(), owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return scorecardNotFound(c)
		}
		if err != nil {
			logger.Error.Printf("Failed to load scorecard %s for watcher: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch scorecard")
		}

		// uuid.Parse accepts any case, but the hub matches ids as strings. Hand Serve the
		// same spelling the save and delete handlers broadcast under.
		c.Locals(websocket.LocalScorecardID, id.String())
		return c.Next()
	}
}
