// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
//
// The data model represents a personal golf scorecard tracker where:
//   - Users keep a list of Friends they play with
//   - A Scorecard records one round at a Course: date, players, per-hole scores
//   - Each Friend accumulates a list of scorecard summaries
//
// A scorecard Player's Reference is an opaque id pointing at either a User or a Friend.
// The two live in different tables, so it is deliberately NOT a foreign key.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents a user's global permission level across the entire platform.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access, including course administration
	UserRoleManager UserRole = "manager" // Can add courses
	UserRoleUser    UserRole = "user"    // Regular golfer: friends and scorecards
)

// assignID gives a new row a UUID before INSERT. IDs are generated in Go rather than by
// the database so the same models work against Postgres and SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// User represents a registered person in the system.
// Users are created automatically the first time a token with a new subject hits the API.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subject     *string   `gorm:"uniqueIndex:idx_users_subject"`          // Token "sub" claim; pointer = nullable for seeded rows
	DisplayName string    `gorm:"not null"`                               // Shown as the player name on new scorecards
	Email       string    `gorm:"uniqueIndex;not null"`                   // Populated from the "email" claim
	Role        UserRole  `gorm:"type:user_role;not null;default:'user'"` // Synced from the "role" claim
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error { assignID(&u.ID); return nil }

// Course represents a golf course. It is read-only from the scorecard workflow's perspective.
type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	City        string    `gorm:"not null;default:''"`
	State       string    `gorm:"not null;default:''"`
	Rating      float64   `gorm:"type:decimal(3,1);not null;default:0"` // Star rating shown on the course card (e.g. 4.5)
	Description string    `gorm:"not null;default:''"`                  // Long description for wide layouts
	Blurb       string    `gorm:"not null;default:''"`                  // One-liner for narrow layouts
	Image       string    `gorm:"not null;default:''"`                  // Image URL
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Holes       []Hole `gorm:"foreignKey:CourseID"` // Ordered by HoleNumber when preloaded by the store
}

func (c *Course) BeforeCreate(*gorm.DB) error { assignID(&c.ID); return nil }

// Hole stores the details of one hole. HoleNumber is 1-based, unique within a course,
// and its ordering is the order of play.
type Hole struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_hole"`
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_course_hole"`
	Par        int       `gorm:"not null"`
	Distance   int       `gorm:"not null"` // Feet
}

func (h *Hole) BeforeCreate(*gorm.DB) error { assignID(&h.ID); return nil }

// Friend is someone a user plays with who may not have an account of their own.
type Friend struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CreatedBy  uuid.UUID         `gorm:"type:uuid;not null;index"` // Owning user
	Name       string            `gorm:"not null"`
	Scorecards []FriendScorecard `gorm:"foreignKey:FriendID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (f *Friend) BeforeCreate(*gorm.DB) error { assignID(&f.ID); return nil }

// FriendScorecard is one entry in a friend's accumulating list of rounds.
// ScorecardID is NOT checked against the scorecards table when appended; the only thing
// that removes entries is the scorecard delete cascade.
type FriendScorecard struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FriendID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ScorecardID uuid.UUID `gorm:"type:uuid;not null;index"`
	CourseID    uuid.UUID `gorm:"type:uuid"`
	Date        time.Time
	Total       int `gorm:"not null;default:0"` // Total strokes for the friend in that round
	CreatedAt   time.Time
}

func (s *FriendScorecard) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// Scorecard is a persisted record of one round.
type Scorecard struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"` // Owning user
	Date      time.Time `gorm:"not null"`
	Players   []Player  `gorm:"foreignKey:ScorecardID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Scorecard) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// Player is one golfer within a scorecard. Name is copied when the player is added.
type Player struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ScorecardID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"` // Column order on the card
	Reference   uuid.UUID `gorm:"type:uuid;not null"`
	Name        string    `gorm:"not null;default:''"`
	Scores      []Score   `gorm:"foreignKey:PlayerID"`
}

func (p *Player) BeforeCreate(*gorm.DB) error { assignID(&p.ID); return nil }

// Score records the strokes a player took on one hole. HolePar is a snapshot of the
// course's par when the score was saved, not a live reference. Zero means "not entered".
type Score struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_hole"`
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_player_hole"`
	HolePar    int       `gorm:"not null"`
	Score      int       `gorm:"not null;default:0"`
}

func (s *Score) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Course{}, &Hole{}, &Friend{}, &FriendScorecard{},
		&Scorecard{}, &Player{}, &Score{},
	}
}
