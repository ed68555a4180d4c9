package handlers

import (
	"github.com/google/uuid"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/models"
)

// Conversions between GORM models and wire types. Handlers never serialise models
// directly so internal columns (owner ids, positions, row ids) stay private.

func toAPICourse(c *models.Course) api.Course {
	holes := make([]api.Hole, len(c.Holes))
	for i, h := range c.Holes {
		holes[i] = api.Hole{HoleNumber: h.HoleNumber, Par: h.Par, Distance: h.Distance}
	}
	return api.Course{
		ID:          c.ID.String(),
		Name:        c.Name,
		City:        c.City,
		State:       c.State,
		Rating:      c.Rating,
		Holes:       holes,
		Description: c.Description,
		Blurb:       c.Blurb,
		Image:       c.Image,
	}
}

func toAPIScorecard(sc *models.Scorecard) api.Scorecard {
	players := make([]api.Player, len(sc.Players))
	for i, p := range sc.Players {
		scores := make([]api.Score, len(p.Scores))
		for j, s := range p.Scores {
			scores[j] = api.Score{HoleNumber: s.HoleNumber, HolePar: s.HolePar, Score: s.Score}
		}
		players[i] = api.Player{Reference: p.Reference.String(), Name: p.Name, Scores: scores}
	}
	return api.Scorecard{
		ID:      sc.ID.String(),
		Course:  sc.CourseID.String(),
		Date:    sc.Date,
		Players: players,
	}
}

func toAPIFriend(f *models.Friend) api.Friend {
	summaries := make([]api.FriendScorecard, len(f.Scorecards))
	for i, s := range f.Scorecards {
		summary := api.FriendScorecard{Scorecard: s.ScorecardID.String(), Date: s.Date, Total: s.Total}
		if s.CourseID != uuid.Nil {
			summary.Course = s.CourseID.String()
		}
		summaries[i] = summary
	}
	return api.Friend{ID: f.ID.String(), Name: f.Name, Scorecards: summaries}
}

// fromAPIPlayers converts a validated replacement payload. References were checked by
// the validator, so a parse failure here means the caller skipped validation.
func fromAPIPlayers(players []api.Player) ([]models.Player, error) {
	out := make([]models.Player, len(players))
	for i, p := range players {
		ref, err := uuid.Parse(p.Reference)
		if err != nil {
			return nil, err
		}
		scores := make([]models.Score, len(p.Scores))
		for j, s := range p.Scores {
			scores[j] = models.Score{HoleNumber: s.HoleNumber, HolePar: s.HolePar, Score: s.Score}
		}
		out[i] = models.Player{Reference: ref, Name: p.Name, Scores: scores}
	}
	return out, nil
}

func fromAPISummaries(summaries []api.FriendScorecard) ([]models.FriendScorecard, error) {
	out := make([]models.FriendScorecard, len(summaries))
	for i, s := range summaries {
		scorecardID, err := uuid.Parse(s.Scorecard)
		if err != nil {
			return nil, err
		}
		var courseID uuid.UUID
		if s.Course != "" {
			if courseID, err = uuid.Parse(s.Course); err != nil {
				return nil, err
			}
		}
		out[i] = models.FriendScorecard{ScorecardID: scorecardID, CourseID: courseID, Date: s.Date, Total: s.Total}
	}
	return out, nil
}
