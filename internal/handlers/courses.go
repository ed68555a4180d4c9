package handlers

// courses.go handles the /api/courses routes. Courses are a read-only catalog from the
// scorecard workflow's point of view; only admins and managers may add one.

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/cache"
	"github.com/trentd187/golf-scorecards/internal/models"
	"github.com/trentd187/golf-scorecards/internal/scorecard"
	"github.com/trentd187/golf-scorecards/internal/store"
)

// ListCourses returns a handler for GET /api/courses.
// Optional query param: ?search=pine matches the start of the name, city, or state.
// The search is taken literally, so "%" and "_" only match themselves.
func ListCourses(courses store.Courses) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// c.Query returns "" when the parameter is absent, which lists the whole catalog.
		list, err := courses.ListCourses(c.UserContext(), c.Query("search"))
		if err != nil {
			logger.Error.Printf("Failed to list courses: %v", err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch courses")
		}

		response := make([]api.Course, 0, len(list))
		for i := range list {
			response = append(response, toAPICourse(&list[i]))
		}
		return c.JSON(response)
	}
}

// GetCourse returns a handler for GET /api/courses/:id.
// Reads go through the course cache first; a miss is loaded from the store and cached.
func GetCourse(courses store.Courses, cc cache.CourseCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return errorJSON(c, fiber.StatusNotFound, "Course does not exist")
		}

		// A cache miss and a cache outage look the same here: ok is false and we fall
		// through to the database. The cache never fails a request.
		ctx := c.UserContext()
		if cached, ok := cc.GetCourse(ctx, id.String()); ok {
			return c.JSON(api.CourseEnvelope{Course: *cached})
		}

		course, err := courses.GetCourse(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Course does not exist")
		}
		if err != nil {
			logger.Error.Printf("Failed to load course %s: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to fetch course")
		}

		// Cache the wire form, so the next hit can be sent without converting again.
		response := toAPICourse(course)
		cc.SetCourse(ctx, &response)
		return c.JSON(api.CourseEnvelope{Course: response})
	}
}

// CreateCourse returns a handler for POST /api/courses.
// Requires "admin" or "manager" role (enforced by RequireRole on the route).
func CreateCourse(courses store.Courses, cc cache.CourseCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req api.CreateCourseRequest
		if msg, ok := parseBody(c, &req); !ok {
			return errorJSON(c, fiber.StatusBadRequest, msg)
		}

		// Scorecards key scores by hole number, so a course with two hole 7s could
		// never be scored consistently.
		seen := make(map[int]bool, len(req.Holes))
		course := models.Course{
			Name:        req.Name,
			City:        req.City,
			State:       req.State,
			Rating:      req.Rating,
			Description: req.Description,
			Blurb:       req.Blurb,
			Image:       req.Image,
		}
		for _, h := range req.Holes {
			if seen[h.HoleNumber] {
				return errorJSON(c, fiber.StatusBadRequest, "hole numbers must be unique")
			}
			seen[h.HoleNumber] = true
			course.Holes = append(course.Holes, models.Hole{HoleNumber: h.HoleNumber, Par: h.Par, Distance: h.Distance})
		}

		ctx := c.UserContext()
		if err := courses.CreateCourse(ctx, &course); err != nil {
			logger.Error.Printf("Failed to create course %q: %v", req.Name, err)
			return errorJSON(c, fiber.StatusInternalServerError, "failed to create course")
		}

		// The request may list holes in any order; respond in hole order like GET does,
		// and warm the cache with that same body.
		response := toAPICourse(&course)
		response.Holes = scorecard.SortHoles(response.Holes)
		cc.SetCourse(ctx, &response)
		return c.Status(fiber.StatusCreated).JSON(api.CourseEnvelope{Course: response})
	}
}
