// Package store is the data-access layer for courses, friends, and scorecards.
// Handlers depend on the small interfaces below; GormStore implements all of them on top
// of a *gorm.DB, so the same code runs against Postgres and SQLite.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/models"
)

// ErrNotFound is returned when a document does not exist or belongs to another user.
var ErrNotFound = errors.New("record not found")

// Courses is the read-mostly course catalog.
type Courses interface {
	ListCourses(ctx context.Context, search string) ([]models.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
}

// Friends is the per-user friend list.
type Friends interface {
	ListFriends(ctx context.Context, owner uuid.UUID) ([]models.Friend, error)
	GetFriend(ctx context.Context, owner, id uuid.UUID) (*models.Friend, error)
	CreateFriend(ctx context.Context, friend *models.Friend) error
	AppendScorecards(ctx context.Context, owner, id uuid.UUID, summaries []models.FriendScorecard) (*models.Friend, error)
}

// Scorecards holds the persisted rounds.
type Scorecards interface {
	ListScorecards(ctx context.Context, owner uuid.UUID) ([]models.Scorecard, error)
	GetScorecard(ctx context.Context, owner, id uuid.UUID) (*models.Scorecard, error)
	CreateScorecard(ctx context.Context, sc *models.Scorecard) error
	ReplacePlayers(ctx context.Context, owner, id uuid.UUID, players []models.Player) (*models.Scorecard, error)
	DeleteScorecard(ctx context.Context, owner, id uuid.UUID) (int, error)
}

// GormStore implements Courses, Friends, and Scorecards.
type GormStore struct {
	db *gorm.DB
}

// New wraps an open GORM handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// notFound maps GORM's "no rows" error onto ErrNotFound and leaves everything else alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// byHoleNumber and byPosition are Preload conditions that keep child rows in play order.
func byHoleNumber(db *gorm.DB) *gorm.DB { return db.Order("hole_number ASC") }
func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }
