package handlers

// scorecards.go handles the /api/scorecards routes: the persisted rounds and the
// save and delete operations of the scorecard edit view.
//
// Ids are parsed before any store call. A malformed id and a missing (or foreign)
// scorecard both answer 404 "Scorecard does not exist"; clients treat them the same way.

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/metrics"
	"github.com/trentd187/golf-scorecards/internal/middleware"
	"github.com/trentd187/golf-scorecards/internal/models"
	"github.com/trentd187/golf-scorecards/internal/scorecard"
	"github.com/trentd187/golf-scorecards/internal/store"
)

// Live event types sent to scorecard watchers.
const (
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ListScorecards returns a handler for GET /api/scorecards: the caller's rounds, newest first.
func ListScorecards(scorecards store.Scorecards) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// c.UserContext() carries the request's cancellation into the query, so a client
		// that hangs up stops the database work too.
		cards, err := scorecards.ListScorecards(c.UserContext(), owner)
		if err != nil {
			logger.Error.Printf("Failed to list scorecards for %s: %v", owner, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch scorecards")
		}

		// make(..., 0, n) so an empty list is sent as [] rather than null.
		response := make([]api.Scorecard, 0, len(cards))
		for i := range cards {
			response = append(response, toAPIScorecard(&cards[i]))
		}
		return c.JSON(response)
	}
}

// CreateScorecard returns a handler for POST /api/scorecards.
// A new round starts with every player at 0 on every hole, each score carrying the
// course's current par for that hole.
func CreateScorecard(scorecards store.Scorecards, courses store.Courses) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// parseBody decodes the JSON and runs the validate tags; msg names every field
		// that failed, e.g. "invalid request body: players: min".
		var req api.CreateScorecardRequest
		if msg, ok := parseBody(c, &req); !ok {
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}

		// The course must exist now: its holes decide how many scores each player gets
		// and which par each score records. The uuid tag already checked the format.
		ctx := c.UserContext()
		courseID, _ := uuid.Parse(req.Course)
		course, err := courses.GetCourse(ctx, courseID)
		if errors.Is(err, store.ErrNotFound) {
			return errorJSON(c, fiber.StatusUnprocessableEntity, "Course does not exist")
		}
		if err != nil {
			logger.Error.Printf("Failed to load course %s: %v", courseID, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to create scorecard")
		}

		blank := scorecard.BlankScores(toAPICourse(course).Holes)
		players := make([]api.Player, len(req.Players))
		// A reference may appear once per card; the edit view keys its rows by it.
		seen := make(map[string]bool, len(req.Players))
		for i, p := range req.Players {
			if seen[p.Reference] {
				return errorJSON(c, fiber.StatusUnprocessableEntity, "player "+p.Reference+" appears more than once")
			}
			seen[p.Reference] = true

			name, ok := playerName(c, owner, p)
			if !ok {
				return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("invalid request body: players[%d].name: required", i))
			}
			// Every player starts on the same zeroed row. fromAPIPlayers copies it into
			// each player's own score records below.
			players[i] = api.Player{Reference: p.Reference, Name: name, Scores: blank}
		}
		modelPlayers, err := fromAPIPlayers(players)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}

		// CreatedBy scopes the card to the caller: every later read, save and delete
		// filters on it, so nobody else can see that the card exists.
		sc := models.Scorecard{
			CourseID:  course.ID,
			CreatedBy: owner,
			Date:      req.Date,
			Players:   modelPlayers,
		}
		if err := scorecards.CreateScorecard(ctx, &sc); err != nil {
			logger.Error.Printf("Failed to create scorecard for %s: %v", owner, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to create scorecard")
		}
		// 201 Created with the same envelope GET uses, so the client can open the
		// new card straight from the response.
		return c.Status(fiber.StatusCreated).JSON(api.ScorecardEnvelope{
			Scorecard: []api.Scorecard{toAPIScorecard(&sc)},
		})
	}
}

// playerName is the name p is entered under. A player without one is only accepted when
// it is the caller, who is entered under the display name middleware.Auth stored from
// the token.
func playerName(c *fiber.Ctx, owner uuid.UUID, p api.NewPlayer) (string, bool) {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name, true
	}
	if !strings.EqualFold(p.Reference, owner.String()) {
		return "", false
	}
	name, _ := c.Locals(middleware.LocalUserName).(string)
	return name, name != ""
}

// GetScorecard returns a handler for GET /api/scorecards/:id.
// The body is always a list of zero or one scorecards under the "scorecard" key.
func GetScorecard(scorecards store.Scorecards) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// A malformed id cannot name any scorecard. Answer 404 here instead of letting
		// the database reject it, which would surface as a 500.
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return scorecardNotFound(c)
		}

		// The store only finds cards the caller created; someone else's card looks
		// exactly like a missing one.
		sc, err := scorecards.GetScorecard(c.UserContext(), owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return scorecardNotFound(c)
		}
		if err != nil {
			logger.Error.Printf("Failed to load scorecard %s: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch scorecard")
		}
		return c.JSON(api.ScorecardEnvelope{Scorecard: []api.Scorecard{toAPIScorecard(sc)}})
	}
}

// ReplacePlayers returns a handler for PATCH /api/scorecards/:id.
//
// The body replaces the scorecard's whole player list. Before writing, the payload is
// checked against the course as it is now: one score per hole, in hole order, with the
// hole's current par. A payload that fails the check answers 422 with a message the
// client shows verbatim. Successful saves are pushed to live watchers.
func ReplacePlayers(scorecards store.Scorecards, courses store.Courses, live Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// Every exit below counts one save attempt in metrics.ScorecardSaves, labelled
		// by how it ended, so a dashboard can tell rejected edits from server faults.
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return scorecardNotFound(c)
		}

		var req api.ReplacePlayersRequest
		if msg, ok := parseBody(c, &req); !ok {
			metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeInvalid).Inc()
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}

		// Load the stored card first. It proves the caller owns it and tells us which
		// course the new scores have to match.
		ctx := c.UserContext()
		current, err := scorecards.GetScorecard(ctx, owner, id)
		if errors.Is(err, store.ErrNotFound) {
			metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return scorecardNotFound(c)
		}
		if err != nil {
			return saveFailed(c, id, err)
		}

		course, err := courses.GetCourse(ctx, current.CourseID)
		if err != nil {
			// A scorecard whose course vanished cannot be checked, so it cannot be saved.
			return saveFailed(c, id, err)
		}

		// Check compares the payload with the course as it is today, not with the pars
		// stored on the old scores. A client working from a stale course gets a 422
		// it can show, and nothing is written.
		if err := scorecard.Check(toAPICourse(course).Holes, req.Players); err != nil {
			var verr *scorecard.ValidationError
			if errors.As(err, &verr) {
				metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeInvalid).Inc()
				return errorJSON(c, fiber.StatusUnprocessableEntity, verr.Msg)
			}
			return saveFailed(c, id, err)
		}

		players, err := fromAPIPlayers(req.Players)
		if err != nil {
			metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeInvalid).Inc()
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}

		// The store swaps the old players and scores for the new ones in a single
		// transaction, so a failed write leaves the previous card untouched.
		saved, err := scorecards.ReplacePlayers(ctx, owner, id, players)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between the check and the write.
			metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return scorecardNotFound(c)
		}
		if err != nil {
			return saveFailed(c, id, err)
		}

		metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeSaved).Inc()
		// Reply with the card as stored, and push the same body to anyone watching it
		// over /ws/scorecards/:id.
		response := toAPIScorecard(saved)
		broadcast(live, api.LiveEvent{Type: EventUpdated, ID: response.ID, Scorecard: &response})
		return c.JSON(api.ScorecardEnvelope{Scorecard: []api.Scorecard{response}})
	}
}

// DeleteScorecard returns a handler for DELETE /api/scorecards/:id.
// The scorecard, its players and scores, and its summary in every referenced friend's
// list are removed in one transaction. The response says how many friends were updated.
func DeleteScorecard(scorecards store.Scorecards, live Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return scorecardNotFound(c)
		}

		// friendsUpdated counts the friends whose scorecard list lost this card. The
		// client reports it after the delete dialog closes.
		friendsUpdated, err := scorecards.DeleteScorecard(c.UserContext(), owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return scorecardNotFound(c)
		}
		if err != nil {
			logger.Error.Printf("Failed to delete scorecard %s: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to delete scorecard")
		}

		metrics.ScorecardDeletes.Inc()
		metrics.FriendSummariesRemoved.Add(float64(friendsUpdated))
		logger.Info.Printf("Deleted scorecard %s (%d friends updated)", id, friendsUpdated)

		// Watchers get a "deleted" event with no scorecard body, which ends their view.
		// id.String() is the lowercase form every watcher is registered under.
		broadcast(live, api.LiveEvent{Type: EventDeleted, ID: id.String()})
		return c.JSON(api.DeleteScorecardResponse{ID: id.String(), FriendsUpdated: friendsUpdated})
	}
}

// scorecardNotFound is the one 404 body for scorecards, whether the id was malformed,
// missing, or belongs to someone else.
func scorecardNotFound(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusNotFound, "Scorecard does not exist")
}

// saveFailed logs the cause and answers a generic 500; database errors are not shown
// to clients.
func saveFailed(c *fiber.Ctx, id uuid.UUID, err error) error {
	metrics.ScorecardSaves.WithLabelValues(metrics.OutcomeError).Inc()
	logger.Error.Printf("Failed to save scorecard %s: %v", id, err)
	return errorJSON(c, fiber.StatusInternalServerError, "failed to save scorecard")
}

// broadcast sends event to the scorecard's watchers. live is nil when the server runs
// without a hub, and a failure here never fails the request that caused it.
func broadcast(live Broadcaster, event api.LiveEvent) {
	if live == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error.Printf("Failed to encode live event for scorecard %s: %v", event.ID, err)
		return
	}
	live.BroadcastToScorecard(event.ID, data)
}
