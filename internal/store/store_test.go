package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/models"
	"github.com/trentd187/golf-scorecards/internal/testutil"
)

type fixture struct {
	db     *gorm.DB
	store  *GormStore
	owner  models.User
	course models.Course
}

func setup(t *testing.T) *fixture {
	db := testutil.OpenDB(t)
	return &fixture{
		db:     db,
		store:  New(db),
		owner:  testutil.SeedUser(t, db, "Owner"),
		course: testutil.SeedCourse(t, db, "Pine Valley", 4, 3, 5),
	}
}

func scoresOf(p models.Player) []int {
	out := make([]int, len(p.Scores))
	for i, s := range p.Scores {
		out[i] = s.Score
	}
	return out
}

func TestCourses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.SeedCourse(t, f.db, "Augusta National", 4, 5)

	t.Run("get orders holes by number", func(t *testing.T) {
		got, err := f.store.GetCourse(ctx, f.course.ID)
		require.NoError(t, err)
		require.Len(t, got.Holes, 3)
		for i, h := range got.Holes {
			assert.Equal(t, i+1, h.HoleNumber)
		}
		assert.Equal(t, 5, got.Holes[2].Par)
	})

	t.Run("get missing course", func(t *testing.T) {
		_, err := f.store.GetCourse(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list with prefix search", func(t *testing.T) {
		all, err := f.store.ListCourses(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		byName, err := f.store.ListCourses(ctx, "aug")
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Augusta National", byName[0].Name)

		byCity, err := f.store.ListCourses(ctx, "PINE")
		require.NoError(t, err)
		assert.Len(t, byCity, 2, "both seeded courses are in Pinehurst")

		none, err := f.store.ListCourses(ctx, "valley")
		require.NoError(t, err)
		assert.Empty(t, none, "search matches prefixes only")
	})

	t.Run("create", func(t *testing.T) {
		c := &models.Course{Name: "Bethpage Black", Holes: []models.Hole{{HoleNumber: 1, Par: 4, Distance: 1290}}}
		require.NoError(t, f.store.CreateCourse(ctx, c))
		got, err := f.store.GetCourse(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, got.Holes, 1)
	})
}

func TestListCourses_SearchIsLiteral(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.SeedCourse(t, f.db, "100% Links", 4)
	testutil.SeedCourse(t, f.db, "Pine_Ridge", 4)

	names := func(search string) []string {
		t.Helper()
		courses, err := f.store.ListCourses(ctx, search)
		require.NoError(t, err)
		out := make([]string, len(courses))
		for i, c := range courses {
			out[i] = c.Name
		}
		return out
	}

	assert.Empty(t, names("%"), "a percent sign is not a wildcard")
	assert.Empty(t, names("_"), "an underscore is not a wildcard")
	assert.Empty(t, names(`\`))
	assert.Equal(t, []string{"100% Links"}, names("100%"))
	assert.Equal(t, []string{"Pine_Ridge"}, names("pine_"), "pine_ does not match the Pinehurst city")
	assert.Len(t, names("pine"), 3, "plain prefixes still match")
}

func TestFriends(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.SeedFriend(t, f.db, f.owner.ID, "Alice")
	bob := testutil.SeedFriend(t, f.db, f.owner.ID, "Bob")
	stranger := testutil.SeedUser(t, f.db, "Stranger")

	t.Run("append keeps existing summaries", func(t *testing.T) {
		first := uuid.New()
		_, err := f.store.AppendScorecards(ctx, f.owner.ID, bob.ID, []models.FriendScorecard{{ScorecardID: first, Total: 80}})
		require.NoError(t, err)

		second := uuid.New()
		got, err := f.store.AppendScorecards(ctx, f.owner.ID, bob.ID, []models.FriendScorecard{{ScorecardID: second, Total: 78}})
		require.NoError(t, err)

		ids := []uuid.UUID{}
		for _, s := range got.Scorecards {
			ids = append(ids, s.ScorecardID)
		}
		assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)
	})

	t.Run("append to someone else's friend", func(t *testing.T) {
		_, err := f.store.AppendScorecards(ctx, stranger.ID, alice.ID, []models.FriendScorecard{{ScorecardID: uuid.New()}})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list sorts by number of scorecards", func(t *testing.T) {
		friends, err := f.store.ListFriends(ctx, f.owner.ID)
		require.NoError(t, err)
		require.Len(t, friends, 2)
		assert.Equal(t, "Bob", friends[0].Name)
		assert.Equal(t, "Alice", friends[1].Name)
	})

	t.Run("get is scoped to the owner", func(t *testing.T) {
		_, err := f.store.GetFriend(ctx, f.owner.ID, alice.ID)
		require.NoError(t, err)
		_, err = f.store.GetFriend(ctx, stranger.ID, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScorecards_GetAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1, p2 := uuid.New(), uuid.New()
	sc := testutil.SeedScorecard(t, f.db, f.owner.ID, f.course, []uuid.UUID{p1, p2}, [][]int{{1, 2, 3}, {4, 5, 6}})

	got, err := f.store.GetScorecard(ctx, f.owner.ID, sc.ID)
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	assert.Equal(t, p1, got.Players[0].Reference)
	assert.Equal(t, []int{1, 2, 3}, scoresOf(got.Players[0]))
	assert.Equal(t, []int{4, 5, 6}, scoresOf(got.Players[1]))

	_, err = f.store.GetScorecard(ctx, uuid.New(), sc.ID)
	assert.ErrorIs(t, err, ErrNotFound, "another user's scorecard is not visible")

	list, err := f.store.ListScorecards(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestScorecards_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc := &models.Scorecard{
		CourseID:  f.course.ID,
		CreatedBy: f.owner.ID,
		Date:      time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC),
		Players: []models.Player{
			{Reference: uuid.New(), Name: "A", Scores: []models.Score{{HoleNumber: 1, HolePar: 4}}},
			{Reference: uuid.New(), Name: "B", Scores: []models.Score{{HoleNumber: 1, HolePar: 4}}},
		},
	}
	require.NoError(t, f.store.CreateScorecard(ctx, sc))

	got, err := f.store.GetScorecard(ctx, f.owner.ID, sc.ID)
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "A", got.Players[0].Name)
	assert.Equal(t, 1, got.Players[1].Position)
}

func TestScorecards_ReplacePlayers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1, p2 := uuid.New(), uuid.New()
	sc := testutil.SeedScorecard(t, f.db, f.owner.ID, f.course, []uuid.UUID{p1, p2}, [][]int{{1, 2, 3}, {4, 5, 6}})

	t.Run("full replacement drops omitted players", func(t *testing.T) {
		got, err := f.store.ReplacePlayers(ctx, f.owner.ID, sc.ID, []models.Player{{
			Reference: p2,
			Scores: []models.Score{
				{HoleNumber: 1, HolePar: 4, Score: 7},
				{HoleNumber: 2, HolePar: 3, Score: 8},
				{HoleNumber: 3, HolePar: 5, Score: 9},
			},
		}})
		require.NoError(t, err)
		require.Len(t, got.Players, 1)
		assert.Equal(t, p2, got.Players[0].Reference)
		assert.Equal(t, "Player 2", got.Players[0].Name, "name carried over for a known reference")
		assert.Equal(t, []int{7, 8, 9}, scoresOf(got.Players[0]))

		var scoreRows int64
		require.NoError(t, f.db.Model(&models.Score{}).Count(&scoreRows).Error)
		assert.EqualValues(t, 3, scoreRows, "old scores are gone")
	})

	t.Run("missing scorecard", func(t *testing.T) {
		_, err := f.store.ReplacePlayers(ctx, f.owner.ID, uuid.New(), nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScorecards_DeleteCascadesToFriends(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.SeedFriend(t, f.db, f.owner.ID, "Alice")
	bob := testutil.SeedFriend(t, f.db, f.owner.ID, "Bob")
	sc := testutil.SeedScorecard(t, f.db, f.owner.ID, f.course, []uuid.UUID{alice.ID, bob.ID}, [][]int{{1, 2, 3}, {4, 5, 6}})
	other := uuid.New()

	for _, fr := range []models.Friend{alice, bob} {
		_, err := f.store.AppendScorecards(ctx, f.owner.ID, fr.ID, []models.FriendScorecard{
			{ScorecardID: sc.ID, CourseID: f.course.ID, Total: 6},
			{ScorecardID: other, Total: 90},
		})
		require.NoError(t, err)
	}

	n, err := f.store.DeleteScorecard(ctx, f.owner.ID, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = f.store.GetScorecard(ctx, f.owner.ID, sc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, fr := range []models.Friend{alice, bob} {
		got, err := f.store.GetFriend(ctx, f.owner.ID, fr.ID)
		require.NoError(t, err)
		require.Len(t, got.Scorecards, 1, "only the deleted scorecard's summary is removed")
		assert.Equal(t, other, got.Scorecards[0].ScorecardID)
	}

	var players int64
	require.NoError(t, f.db.Model(&models.Player{}).Count(&players).Error)
	assert.Zero(t, players)

	_, err = f.store.DeleteScorecard(ctx, f.owner.ID, sc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScorecards_DeleteRollsBackWhenCascadeFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.SeedFriend(t, f.db, f.owner.ID, "Alice")
	sc := testutil.SeedScorecard(t, f.db, f.owner.ID, f.course, []uuid.UUID{alice.ID}, [][]int{{4, 3, 5}})

	// Without the summaries table the cascade step fails mid-transaction.
	require.NoError(t, f.db.Migrator().DropTable(&models.FriendScorecard{}))

	_, err := f.store.DeleteScorecard(ctx, f.owner.ID, sc.ID)
	require.Error(t, err)

	got, err := f.store.GetScorecard(ctx, f.owner.ID, sc.ID)
	require.NoError(t, err, "the scorecard survives a failed cascade")
	assert.Len(t, got.Players, 1)
}
