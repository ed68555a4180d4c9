package scorecard

import (
	"fmt"

	"github.com/trentd187/golf-scorecards/internal/api"
)

// ValidationError is a save payload that breaks a scorecard invariant.
// Its message is meant to be shown to the user as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BuildPlayers rebuilds the full replacement payload from the course that is loaded now
// and the matrix: one Score per (player, hole) with the hole's current par.
func BuildPlayers(holes []api.Hole, m Matrix) []api.Player {
	ordered := SortHoles(holes)
	players := make([]api.Player, 0, len(m.refs))
	for _, ref := range m.refs {
		row := m.rows[ref]
		scores := make([]api.Score, len(ordered))
		for i, h := range ordered {
			v := 0
			if i < len(row) {
				v = row[i]
			}
			scores[i] = api.Score{HoleNumber: h.HoleNumber, HolePar: h.Par, Score: v}
		}
		players = append(players, api.Player{Reference: ref, Scores: scores})
	}
	return players
}

// Check verifies a save payload against the course it is being saved for:
//   - references are unique
//   - every player has exactly one score per hole, in hole-number order
//   - every holePar equals the course's par for that hole
func Check(holes []api.Hole, players []api.Player) error {
	ordered := SortHoles(holes)
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.Reference] {
			return invalid("player %s appears more than once", p.Reference)
		}
		seen[p.Reference] = true

		if len(p.Scores) != len(ordered) {
			return invalid("player %s has %d scores, course has %d holes", p.Reference, len(p.Scores), len(ordered))
		}
		for i, s := range p.Scores {
			h := ordered[i]
			if s.HoleNumber != h.HoleNumber {
				return invalid("player %s: score %d is for hole %d, expected hole %d", p.Reference, i+1, s.HoleNumber, h.HoleNumber)
			}
			if s.HolePar != h.Par {
				return invalid("player %s: hole %d par is %d, not %d", p.Reference, h.HoleNumber, h.Par, s.HolePar)
			}
			if s.Score < 0 {
				return invalid("player %s: hole %d score cannot be negative", p.Reference, h.HoleNumber)
			}
		}
	}
	return nil
}

// BlankScores returns a zero score for every hole, used when a round is started.
func BlankScores(holes []api.Hole) []api.Score {
	ordered := SortHoles(holes)
	scores := make([]api.Score, len(ordered))
	for i, h := range ordered {
		scores[i] = api.Score{HoleNumber: h.HoleNumber, HolePar: h.Par}
	}
	return scores
}
