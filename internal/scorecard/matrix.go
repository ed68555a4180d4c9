// Package scorecard holds the rules shared by the API server and the edit view:
// the score matrix, score-cell parsing, building the save payload, and the invariant check
// the server runs before it accepts a save.
package scorecard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/trentd187/golf-scorecards/internal/api"
)

// Matrix maps each player reference to that player's scores in hole order
// (index 0 is the lowest hole number). A Matrix is never modified after it is built:
// Set returns a new Matrix, so two values can be compared to detect an edit.
type Matrix struct {
	refs []string         // player order as loaded
	rows map[string][]int // reference -> one score per hole
	cols int              // number of holes
}

// NewMatrix builds the matrix for a loaded scorecard. Every player gets exactly one
// entry per hole of holes (sorted by hole number), taken from the persisted score with
// the same hole number, or 0 when the player has none for that hole.
func NewMatrix(holes []api.Hole, players []api.Player) Matrix {
	ordered := SortHoles(holes)
	m := Matrix{
		refs: make([]string, 0, len(players)),
		rows: make(map[string][]int, len(players)),
		cols: len(ordered),
	}
	for _, p := range players {
		byHole := make(map[int]int, len(p.Scores))
		for _, s := range p.Scores {
			byHole[s.HoleNumber] = s.Score
		}
		row := make([]int, len(ordered))
		for i, h := range ordered {
			row[i] = byHole[h.HoleNumber]
		}
		if _, dup := m.rows[p.Reference]; !dup {
			m.refs = append(m.refs, p.Reference)
		}
		m.rows[p.Reference] = row
	}
	return m
}

// Holes is the number of score columns.
func (m Matrix) Holes() int { return m.cols }

// References returns the player references in card order.
func (m Matrix) References() []string {
	return append([]string(nil), m.refs...)
}

// Get returns the score at (ref, hole index).
func (m Matrix) Get(ref string, hole int) (int, bool) {
	row, ok := m.rows[ref]
	if !ok || hole < 0 || hole >= len(row) {
		return 0, false
	}
	return row[hole], true
}

// Row returns a copy of one player's scores.
func (m Matrix) Row(ref string) []int {
	row, ok := m.rows[ref]
	if !ok {
		return nil
	}
	return append([]int(nil), row...)
}

// Set returns a new Matrix with (ref, hole index) set to value. Rows other than ref are
// shared with the receiver, which is left unchanged.
func (m Matrix) Set(ref string, hole, value int) (Matrix, error) {
	row, ok := m.rows[ref]
	if !ok {
		return m, fmt.Errorf("player %q is not on this scorecard", ref)
	}
	if hole < 0 || hole >= len(row) {
		return m, fmt.Errorf("hole index %d out of range [0,%d)", hole, len(row))
	}

	next := Matrix{refs: m.refs, rows: make(map[string][]int, len(m.rows)), cols: m.cols}
	for k, v := range m.rows {
		next.rows[k] = v
	}
	updated := append([]int(nil), row...)
	updated[hole] = value
	next.rows[ref] = updated
	return next, nil
}

// Totals returns each player's stroke total.
func (m Matrix) Totals() map[string]int {
	out := make(map[string]int, len(m.rows))
	for ref, row := range m.rows {
		sum := 0
		for _, v := range row {
			sum += v
		}
		out[ref] = sum
	}
	return out
}

// ParseScore turns the text typed into a score cell into a stroke count.
// Empty, non-numeric and negative input all become 0 ("not entered").
func ParseScore(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SortHoles returns a copy of holes ordered by hole number.
func SortHoles(holes []api.Hole) []api.Hole {
	out := append([]api.Hole(nil), holes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].HoleNumber < out[j].HoleNumber })
	return out
}
