// Package client talks to the Scorecard API over HTTP. It is what the scorecard edit
// view and the command-line tool use to load, save, and delete rounds.
//
// Requests go through fiber's Agent. Every call carries a timeout: the context deadline
// when there is one, otherwise Client.Timeout, so no fetch waits forever.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-scorecards/internal/api"
)

// DefaultTimeout applies to calls whose context has no deadline.
const DefaultTimeout = 10 * time.Second

// ErrNotFound matches any response that means "this document does not exist": a 404, or
// an empty scorecard list.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response. Message is the server's "error" field, unchanged, so
// callers can show it to the user as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == fiber.StatusNotFound
}

// Client is a Scorecard API client authenticated with one bearer token.
type Client struct {
	baseURL string
	token   string
	Timeout time.Duration
}

// New returns a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		Timeout: DefaultTimeout,
	}
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/api/" + strings.Join(escaped, "/")
}

// GetScorecard fetches one scorecard. A missing scorecard, a malformed id, and an empty
// result list all come back as ErrNotFound.
func (c *Client) GetScorecard(ctx context.Context, id string) (*api.Scorecard, error) {
	var env api.ScorecardEnvelope
	if err := c.do(ctx, fiber.Get(c.url("scorecards", id)), &env); err != nil {
		return nil, err
	}
	if len(env.Scorecard) == 0 {
		return nil, ErrNotFound
	}
	return &env.Scorecard[0], nil
}

// GetCourse fetches one course with its holes.
func (c *Client) GetCourse(ctx context.Context, id string) (*api.Course, error) {
	var env api.CourseEnvelope
	if err := c.do(ctx, fiber.Get(c.url("courses", id)), &env); err != nil {
		return nil, err
	}
	return &env.Course, nil
}

// ListCourses searches the course catalog; an empty search lists everything.
func (c *Client) ListCourses(ctx context.Context, search string) ([]api.Course, error) {
	a := fiber.Get(c.url("courses"))
	if search != "" {
		a.QueryString("search=" + url.QueryEscape(search))
	}
	var courses []api.Course
	if err := c.do(ctx, a, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ReplacePlayers overwrites the scorecard's players and scores with players.
func (c *Client) ReplacePlayers(ctx context.Context, id string, players []api.Player) (*api.Scorecard, error) {
	a := fiber.Patch(c.url("scorecards", id)).JSON(api.ReplacePlayersRequest{Players: players})
	var env api.ScorecardEnvelope
	if err := c.do(ctx, a, &env); err != nil {
		return nil, err
	}
	if len(env.Scorecard) == 0 {
		return nil, ErrNotFound
	}
	return &env.Scorecard[0], nil
}

// DeleteScorecard deletes a scorecard and, on the server, its friend summaries.
func (c *Client) DeleteScorecard(ctx context.Context, id string) (*api.DeleteScorecardResponse, error) {
	var resp api.DeleteScorecardResponse
	if err := c.do(ctx, fiber.Delete(c.url("scorecards", id)), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AppendFriendScorecards adds summaries to the end of a friend's scorecard list.
func (c *Client) AppendFriendScorecards(ctx context.Context, friendID string, summaries []api.FriendScorecard) (*api.Friend, error) {
	a := fiber.Patch(c.url("friends", friendID)).JSON(api.UpdateFriendScorecardsRequest{Scorecards: summaries})
	var env api.FriendEnvelope
	if err := c.do(ctx, a, &env); err != nil {
		return nil, err
	}
	return &env.Friend, nil
}

// do sends the request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, a *fiber.Agent, out any) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}
	if timeout <= 0 {
		fiber.ReleaseAgent(a)
		return context.DeadlineExceeded
	}

	a.Set(fiber.HeaderAuthorization, "Bearer "+c.token).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout)

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		return decodeError(status, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var e api.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(body))
		if e.Error == "" {
			// Standard reason phrase, e.g. "Bad Gateway".
			e.Error = fiber.NewError(status).Message
		}
	}
	return &APIError{Status: status, Message: e.Error}
}
