// Package api defines the JSON bodies exchanged between the Scorecard API and its clients.
// We use dedicated structs (instead of the raw GORM models) so we control exactly which
// fields are serialised and the server and the client agree on a single definition.
package api

import "time"

// Hole is one hole of a course as sent over the wire.
type Hole struct {
	HoleNumber int `json:"holeNumber" validate:"min=1"`
	Par        int `json:"par" validate:"min=1"`
	Distance   int `json:"distance" validate:"min=1"` // Feet
}

// Course is a golf course document.
type Course struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Rating      float64 `json:"rating"`
	Holes       []Hole  `json:"holes"`
	Description string  `json:"description"`
	Blurb       string  `json:"blurb"`
	Image       string  `json:"image"`
}

// Score is a player's result on one hole. HolePar is copied from the course at save time.
type Score struct {
	HoleNumber int `json:"holeNumber" validate:"min=1"`
	HolePar    int `json:"holePar" validate:"min=1"`
	Score      int `json:"score" validate:"min=0"`
}

// Player is one golfer on a scorecard; Reference is a user or friend id.
type Player struct {
	Reference string  `json:"reference" validate:"required,uuid"`
	Name      string  `json:"name,omitempty"`
	Scores    []Score `json:"scores" validate:"dive"`
}

// Scorecard is one round.
type Scorecard struct {
	ID      string    `json:"id"`
	Course  string    `json:"course"` // Course id
	Date    time.Time `json:"date"`
	Players []Player  `json:"players"`
}

// ScorecardEnvelope is the body of GET /api/scorecards/:id. It always holds zero or one
// scorecard, mirroring the list-shaped response clients already consume.
type ScorecardEnvelope struct {
	Scorecard []Scorecard `json:"scorecard"`
}

// CourseEnvelope is the body of GET /api/courses/:id.
type CourseEnvelope struct {
	Course Course `json:"course"`
}

// FriendScorecard is one summary in a friend's list of rounds.
type FriendScorecard struct {
	Scorecard string    `json:"scorecard" validate:"required,uuid"`
	Course    string    `json:"course,omitempty" validate:"omitempty,uuid"`
	Date      time.Time `json:"date"`
	Total     int       `json:"total" validate:"min=0"`
}

// Friend is someone the user plays with.
type Friend struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Scorecards []FriendScorecard `json:"scorecards"`
}

// FriendEnvelope is the body of the single-friend endpoints.
type FriendEnvelope struct {
	Friend Friend `json:"friend"`
}

// ReplacePlayersRequest is the body of PATCH /api/scorecards/:id.
// It is a full replacement: players missing from the list are dropped from the scorecard.
type ReplacePlayersRequest struct {
	Players []Player `json:"players" validate:"required,min=1,dive"`
}

// NewPlayer names a golfer when a round is started. Name may be left out for the caller's
// own entry; the server fills in their display name.
type NewPlayer struct {
	Reference string `json:"reference" validate:"required,uuid"`
	Name      string `json:"name,omitempty"`
}

// CreateScorecardRequest is the body of POST /api/scorecards.
type CreateScorecardRequest struct {
	Course  string      `json:"course" validate:"required,uuid"`
	Date    time.Time   `json:"date" validate:"required"`
	Players []NewPlayer `json:"players" validate:"required,min=1,dive"`
}

// CreateFriendRequest is the body of POST /api/friends.
type CreateFriendRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateFriendScorecardsRequest is the body of PATCH /api/friends/:id. The summaries are
// appended to the friend's list.
type UpdateFriendScorecardsRequest struct {
	Scorecards []FriendScorecard `json:"scorecards" validate:"required,min=1,dive"`
}

// CreateCourseRequest is the body of POST /api/courses.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Rating      float64 `json:"rating" validate:"min=0,max=5"`
	Holes       []Hole  `json:"holes" validate:"required,min=1,dive"`
	Description string  `json:"description"`
	Blurb       string  `json:"blurb"`
	Image       string  `json:"image"`
}

// DeleteScorecardResponse reports the result of DELETE /api/scorecards/:id, including how
// many friend summaries the cascade removed.
type DeleteScorecardResponse struct {
	ID             string `json:"id"`
	FriendsUpdated int    `json:"friendsUpdated"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LiveEvent is pushed to websocket watchers of a scorecard.
type LiveEvent struct {
	Type      string     `json:"type"` // "updated" or "deleted"
	Scorecard *Scorecard `json:"scorecard,omitempty"`
	ID        string     `json:"id"`
}
