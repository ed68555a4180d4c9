package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/handlers"
	"github.com/trentd187/golf-scorecards/internal/middleware"
	"github.com/trentd187/golf-scorecards/internal/models"
	"github.com/trentd187/golf-scorecards/internal/store"
	"github.com/trentd187/golf-scorecards/internal/testutil"
)

const token = "let-me-in"

// serve starts app on a random local port and returns its base URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

type fixture struct {
	client *Client
	owner  models.User
	course models.Course
	card   models.Scorecard
	friend models.Friend
	store  *store.GormStore
}

func setup(t *testing.T) *fixture {
	db := testutil.OpenDB(t)
	f := &fixture{store: store.New(db)}
	f.owner = testutil.SeedUser(t, db, "Owner")
	f.course = testutil.SeedCourse(t, db, "Pinehurst No. 2", 4, 3)
	f.friend = testutil.SeedFriend(t, db, f.owner.ID, "Jack")
	f.card = testutil.SeedScorecard(t, db, f.owner.ID, f.course,
		[]uuid.UUID{f.owner.ID, f.friend.ID}, [][]int{{4, 3}, {5, 2}})

	auth := func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "Bearer "+token {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals(middleware.LocalUserID, f.owner.ID.String())
		c.Locals(middleware.LocalUserRole, "user")
		return c.Next()
	}
	app := fiber.New()
	handlers.Mount(app.Group("/api", auth), app.Group("/ws", auth), handlers.Deps{
		Courses: f.store, Friends: f.store, Scorecards: f.store,
	})
	f.client = New(serve(t, app), token)
	return f
}

func TestGetScorecardAndCourse(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc, err := f.client.GetScorecard(ctx, f.card.ID.String())
	require.NoError(t, err)
	assert.Equal(t, f.course.ID.String(), sc.Course)
	require.Len(t, sc.Players, 2)
	assert.Equal(t, f.friend.ID.String(), sc.Players[1].Reference)

	course, err := f.client.GetCourse(ctx, sc.Course)
	require.NoError(t, err)
	assert.Equal(t, "Pinehurst No. 2", course.Name)
	assert.Len(t, course.Holes, 2)

	courses, err := f.client.ListCourses(ctx, "pine")
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-an-id"} {
		_, err := f.client.GetScorecard(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Scorecard does not exist", apiErr.Message)
	}

	_, err := f.client.GetCourse(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplacePlayers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	players := []api.Player{
		{Reference: f.owner.ID.String(), Scores: []api.Score{{HoleNumber: 1, HolePar: 4, Score: 5}, {HoleNumber: 2, HolePar: 3, Score: 3}}},
		{Reference: f.friend.ID.String(), Scores: []api.Score{{HoleNumber: 1, HolePar: 4, Score: 4}, {HoleNumber: 2, HolePar: 3, Score: 0}}},
	}
	sc, err := f.client.ReplacePlayers(ctx, f.card.ID.String(), players)
	require.NoError(t, err)
	assert.Equal(t, 5, sc.Players[0].Scores[0].Score)

	players[0].Scores[1].HolePar = 4
	_, err = f.client.ReplacePlayers(ctx, f.card.ID.String(), players)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "player "+f.owner.ID.String()+": hole 2 par is 3, not 4", apiErr.Message)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDeleteScorecard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	friend, err := f.client.AppendFriendScorecards(ctx, f.friend.ID.String(), []api.FriendScorecard{
		{Scorecard: f.card.ID.String(), Course: f.course.ID.String(), Date: f.card.Date, Total: 7},
	})
	require.NoError(t, err)
	require.Len(t, friend.Scorecards, 1)

	resp, err := f.client.DeleteScorecard(ctx, f.card.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FriendsUpdated)

	_, err = f.client.DeleteScorecard(ctx, f.card.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.client.GetScorecard(ctx, f.card.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadToken(t *testing.T) {
	f := setup(t)
	f.client.token = "wrong"

	_, err := f.client.GetScorecard(context.Background(), f.card.ID.String())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid token", apiErr.Message)
}

func TestEmptyListIsNotFound(t *testing.T) {
	app := fiber.New()
	app.Get("/api/scorecards/:id", func(c *fiber.Ctx) error {
		return c.JSON(api.ScorecardEnvelope{Scorecard: []api.Scorecard{}})
	})
	c := New(serve(t, app), token)

	_, err := c.GetScorecard(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCallsTimeOut(t *testing.T) {
	app := fiber.New()
	app.Get("/api/scorecards/:id", func(c *fiber.Ctx) error {
		time.Sleep(500 * time.Millisecond)
		return c.JSON(api.ScorecardEnvelope{})
	})
	c := New(serve(t, app), token)

	t.Run("client default", func(t *testing.T) {
		c.Timeout = 50 * time.Millisecond
		start := time.Now()
		_, err := c.GetScorecard(context.Background(), uuid.NewString())
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})

	t.Run("context deadline", func(t *testing.T) {
		c.Timeout = time.Minute
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, err := c.GetScorecard(ctx, uuid.NewString())
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.GetScorecard(ctx, uuid.NewString())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAPIErrorWithoutJSONBody(t *testing.T) {
	app := fiber.New()
	app.Get("/api/courses/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusBadGateway)
	})
	c := New(serve(t, app), token)

	_, err := c.GetCourse(context.Background(), "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
