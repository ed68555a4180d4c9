package handlers

// friends.go handles the /api/friends routes. A friend belongs to the user who created
// it; asking for someone else's friend looks exactly like asking for a missing one.

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/models"
	"github.com/trentd187/golf-scorecards/internal/store"
)

// ListFriends returns a handler for GET /api/friends.
// Friends with the most recorded rounds come first.
func ListFriends(friends store.Friends) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// The store does the ordering; the handler only converts to the wire type.
		list, err := friends.ListFriends(c.UserContext(), owner)
		if err != nil {
			logger.Error.Printf("Failed to list friends for %s: %v", owner, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch friends")
		}

		response := make([]api.Friend, 0, len(list))
		for i := range list {
			response = append(response, toAPIFriend(&list[i]))
		}
		return c.JSON(response)
	}
}

// CreateFriend returns a handler for POST /api/friends.
func CreateFriend(friends store.Friends) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		var req api.CreateFriendRequest
		if msg, ok := parseBody(c, &req); !ok {
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}

		// A new friend starts with an empty scorecard list. Rounds are added later
		// through PATCH /api/friends/:id.
		friend := models.Friend{CreatedBy: owner, Name: req.Name}
		if err := friends.CreateFriend(c.UserContext(), &friend); err != nil {
			logger.Error.Printf("Failed to create friend for %s: %v", owner, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to create friend")
		}
		return c.Status(fiber.StatusCreated).JSON(api.FriendEnvelope{Friend: toAPIFriend(&friend)})
	}
}

// GetFriend returns a handler for GET /api/friends/:id.
func GetFriend(friends store.Friends) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		// Malformed ids are answered here, the same way as missing ones.
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return friendNotFound(c)
		}

		friend, err := friends.GetFriend(c.UserContext(), owner, id)
		if errors.Is(err, store.ErrNotFound) {
			return friendNotFound(c)
		}
		if err != nil {
			logger.Error.Printf("Failed to load friend %s: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch friend")
		}
		return c.JSON(api.FriendEnvelope{Friend: toAPIFriend(friend)})
	}
}

// UpdateFriendScorecards returns a handler for PATCH /api/friends/:id.
// The summaries in the body are appended to the friend's list; nothing is replaced, and
// the scorecard ids are taken on trust.
func UpdateFriendScorecards(friends store.Friends) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := currentUser(c)
		if !ok {
			return invalidUser(c)
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return friendNotFound(c)
		}

		var req api.UpdateFriendScorecardsRequest
		if msg, ok := parseBody(c, &req); !ok {
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}
		// The validate tags already checked the ids are UUIDs, so this only fails on
		// input the validator let through by mistake.
		summaries, err := fromAPISummaries(req.Scorecards)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}

		// AppendScorecards returns the friend with the full, updated list, which is
		// what the client renders next.
		friend, err := friends.AppendScorecards(c.UserContext(), owner, id, summaries)
		if errors.Is(err, store.ErrNotFound) {
			return friendNotFound(c)
		}
		if err != nil {
			logger.Error.Printf("Failed to append scorecards to friend %s: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to update friend")
		}
		return c.JSON(api.FriendEnvelope{Friend: toAPIFriend(friend)})
	}
}

func friendNotFound(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusNotFound, "Friend does not exist")
}
