// Package testutil holds fixtures shared by the package tests: an in-memory SQLite
// database with the full schema, and a few seeded rows.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/database"
	"github.com/trentd187/golf-scorecards/internal/models"
)

// OpenDB returns a fresh, migrated in-memory SQLite database that lives for the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(dsn)
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test database")

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user with the given display name.
func SeedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	subject := "sub_" + uuid.NewString()
	u := models.User{
		Subject:     &subject,
		DisplayName: name,
		Email:       subject + "@example.com",
		Role:        models.UserRoleUser,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// SeedCourse inserts a course whose holes have the given pars (hole 1 first).
func SeedCourse(t *testing.T, db *gorm.DB, name string, pars ...int) models.Course {
	t.Helper()
	c := models.Course{Name: name, City: "Pinehurst", State: "NC", Rating: 4.5}
	for i, par := range pars {
		c.Holes = append(c.Holes, models.Hole{HoleNumber: i + 1, Par: par, Distance: 300 * par})
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// SeedFriend inserts a friend owned by owner.
func SeedFriend(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) models.Friend {
	t.Helper()
	f := models.Friend{CreatedBy: owner, Name: name}
	require.NoError(t, db.Create(&f).Error)
	return f
}

// SeedScorecard inserts a scorecard at course for owner, one player per reference, with
// rows[i][j] as player i's score on hole j+1.
func SeedScorecard(t *testing.T, db *gorm.DB, owner uuid.UUID, course models.Course, refs []uuid.UUID, rows [][]int) models.Scorecard {
	t.Helper()
	sc := models.Scorecard{
		CourseID:  course.ID,
		CreatedBy: owner,
		Date:      time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
	}
	for i, ref := range refs {
		p := models.Player{Position: i, Reference: ref, Name: fmt.Sprintf("Player %d", i+1)}
		for j, h := range course.Holes {
			p.Scores = append(p.Scores, models.Score{HoleNumber: h.HoleNumber, HolePar: h.Par, Score: rows[i][j]})
		}
		sc.Players = append(sc.Players, p)
	}
	require.NoError(t, db.Create(&sc).Error)
	return sc
}
