package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-scorecards/internal/cache"
	"github.com/trentd187/golf-scorecards/internal/middleware"
	"github.com/trentd187/golf-scorecards/internal/store"
	"github.com/trentd187/golf-scorecards/internal/websocket"
)

// Deps is everything the route handlers need.
type Deps struct {
	Courses     store.Courses
	Friends     store.Friends
	Scorecards  store.Scorecards
	CourseCache cache.CourseCache
	Hub         *websocket.Hub
}

// Mount registers the authenticated routes. api is the /api group and ws the /ws group,
// both already behind middleware.Auth.
func Mount(api, ws fiber.Router, d Deps) {
	courseCache := d.CourseCache
	if courseCache == nil {
		courseCache = cache.Noop{}
	}
	var live Broadcaster
	if d.Hub != nil {
		live = d.Hub
	}

	// GET  /api/courses      - search the course catalog (?search=)
	// GET  /api/courses/:id  - one course with its holes
	// POST /api/courses      - add a course (admin and manager only)
	api.Get("/courses", ListCourses(d.Courses))
	api.Get("/courses/:id", GetCourse(d.Courses, courseCache))
	api.Post("/courses", middleware.RequireRole("admin", "manager"), CreateCourse(d.Courses, courseCache))

	// Friends are per user; PATCH appends scorecard summaries.
	api.Get("/friends", ListFriends(d.Friends))
	api.Post("/friends", CreateFriend(d.Friends))
	api.Get("/friends/:id", GetFriend(d.Friends))
	api.Patch("/friends/:id", UpdateFriendScorecards(d.Friends))

	// Scorecards: PATCH replaces all players, DELETE cascades to friend summaries.
	api.Get("/scorecards", ListScorecards(d.Scorecards))
	api.Post("/scorecards", CreateScorecard(d.Scorecards, d.Courses))
	api.Get("/scorecards/:id", GetScorecard(d.Scorecards))
	api.Patch("/scorecards/:id", ReplacePlayers(d.Scorecards, d.Courses, live))
	api.Delete("/scorecards/:id", DeleteScorecard(d.Scorecards, live))

	if d.Hub != nil {
		ws.Get("/scorecards/:id", WatchScorecard(d.Scorecards), websocket.Serve(d.Hub))
	}
}
