package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/client"
	"github.com/trentd187/golf-scorecards/internal/editor"
)

// stubBackend serves one scorecard and its course.
type stubBackend struct {
	card   *api.Scorecard
	course *api.Course
}

func (b *stubBackend) GetScorecard(_ context.Context, id string) (*api.Scorecard, error) {
	if id != b.card.ID {
		return nil, client.ErrNotFound
	}
	return b.card, nil
}

func (b *stubBackend) GetCourse(context.Context, string) (*api.Course, error) { return b.course, nil }

func (b *stubBackend) ReplacePlayers(context.Context, string, []api.Player) (*api.Scorecard, error) {
	return b.card, nil
}

func (b *stubBackend) DeleteScorecard(context.Context, string) (*api.DeleteScorecardResponse, error) {
	return &api.DeleteScorecardResponse{ID: b.card.ID}, nil
}

func newView(t *testing.T) *editor.View {
	b := &stubBackend{
		course: &api.Course{
			ID: "c1", Name: "Pinehurst No. 2", City: "Pinehurst", State: "NC",
			Holes: []api.Hole{{HoleNumber: 2, Par: 3}, {HoleNumber: 1, Par: 4}},
		},
		card: &api.Scorecard{
			ID: "s1", Course: "c1",
			Date: time.Date(2024, 6, 1, 14, 5, 0, 0, time.UTC),
			Players: []api.Player{
				{Reference: "a", Name: "Ann", Scores: []api.Score{{HoleNumber: 1, HolePar: 4, Score: 5}, {HoleNumber: 2, HolePar: 3, Score: 3}}},
				{Reference: "b", Scores: []api.Score{{HoleNumber: 1, HolePar: 4, Score: 4}}},
			},
		},
	}
	v := editor.New(b)
	require.Equal(t, editor.Ready, v.Open(context.Background(), "token", "s1").Phase)
	return v
}

func TestRender(t *testing.T) {
	v := newView(t)

	var out bytes.Buffer
	render(&out, v)

	text := out.String()
	assert.Contains(t, text, "Pinehurst No. 2\nJun 1, 2024 at 2:05 PM, Pinehurst, NC\n")
	assert.Contains(t, text, "Ann")
	assert.Contains(t, text, "Player 2", "unnamed players get their column number")
	assert.Regexp(t, `(?m)^\s*1\s+4\s+5\s+4\s*$`, text)
	assert.Regexp(t, `(?m)^\s*2\s+3\s+3\s+-\s*$`, text)
	assert.Regexp(t, `(?m)^\s*Total\s+7\s+8\s+4\s*$`, text)
}

func TestRender_NotReady(t *testing.T) {
	v := editor.New(&stubBackend{card: &api.Scorecard{ID: "s1"}})
	v.Open(context.Background(), "token", "missing")

	var out bytes.Buffer
	render(&out, v)
	assert.Equal(t, "Scorecard is not found\n", out.String())
}

func TestPlayerRef(t *testing.T) {
	s := newView(t).State()

	ref, err := playerRef(s, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", ref)

	ref, err = playerRef(s, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", ref)

	_, err = playerRef(s, "3")
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	v := newView(t)

	require.NoError(t, set(context.Background(), v, []string{"2", "2", "6"}))
	assert.Equal(t, []int{4, 6}, v.State().Matrix.Row("b"))

	assert.Error(t, set(context.Background(), v, []string{"2", "x", "6"}))
	assert.EqualError(t, set(context.Background(), v, []string{"2", "3", "6"}),
		"hole 3 out of range, the card has 2 holes")
	assert.EqualError(t, set(context.Background(), v, []string{"2", "0", "6"}),
		"hole 0 out of range, the card has 2 holes")
	assert.Equal(t, []int{4, 6}, v.State().Matrix.Row("b"), "rejected edits change nothing")
}

type stubCatalog struct {
	courses []api.Course
	err     error
	search  string
}

func (c *stubCatalog) ListCourses(_ context.Context, search string) ([]api.Course, error) {
	c.search = search
	return c.courses, c.err
}

func TestListCourses(t *testing.T) {
	catalog := &stubCatalog{courses: []api.Course{{
		ID: "c1", Name: "Pinehurst No. 2", City: "Pinehurst", State: "NC",
		Holes: []api.Hole{{HoleNumber: 1, Par: 4}, {HoleNumber: 2, Par: 3}},
	}}}

	var out bytes.Buffer
	require.NoError(t, listCourses(context.Background(), catalog, "pine", &out))
	assert.Equal(t, "pine", catalog.search)
	assert.Regexp(t, `(?m)^ID\s+Course\s+Location\s+Holes\s+Par$`, out.String())
	assert.Regexp(t, `(?m)^c1\s+Pinehurst No\. 2\s+Pinehurst, NC\s+2\s+7$`, out.String())

	out.Reset()
	require.NoError(t, listCourses(context.Background(), &stubCatalog{}, "", &out))
	assert.Equal(t, "No courses found\n", out.String())

	boom := errors.New("connection refused")
	assert.ErrorIs(t, listCourses(context.Background(), &stubCatalog{err: boom}, "", &out), boom)
}

func TestRemove(t *testing.T) {
	v := newView(t)

	require.NoError(t, remove(context.Background(), v, true))
	assert.Equal(t, editor.Deleted, v.State().Phase)
}
