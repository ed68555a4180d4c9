package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/editor"
	"github.com/trentd187/golf-scorecards/internal/scorecard"
)

// render prints the header and the score grid: one row per hole, one column per player,
// and a totals row.
func render(w io.Writer, view *editor.View) {
	s := view.State()
	if s.Phase != editor.Ready {
		fmt.Fprintf(w, "Scorecard is %s\n", s.Phase)
		return
	}

	h := view.Header()
	fmt.Fprintf(w, "%s\n%s at %s, %s\n\n", h.Course, h.Date, h.Time, h.Location)

	refs := s.Matrix.References()
	names := make(map[string]string, len(s.Scorecard.Players))
	for _, p := range s.Scorecard.Players {
		names[p.Reference] = p.Name
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "Hole\tPar\t")
	for i, ref := range refs {
		name := names[ref]
		if name == "" {
			name = "Player " + strconv.Itoa(i+1)
		}
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw)

	par := 0
	for i, hole := range scorecard.SortHoles(s.Course.Holes) {
		par += hole.Par
		fmt.Fprintf(tw, "%d\t%d\t", hole.HoleNumber, hole.Par)
		for _, ref := range refs {
			v, _ := s.Matrix.Get(ref, i)
			cell := "-"
			if v > 0 {
				cell = strconv.Itoa(v)
			}
			fmt.Fprintf(tw, "%s\t", cell)
		}
		fmt.Fprintln(tw)
	}

	totals := s.Matrix.Totals()
	fmt.Fprintf(tw, "Total\t%d\t", par)
	for _, ref := range refs {
		fmt.Fprintf(tw, "%d\t", totals[ref])
	}
	fmt.Fprintln(tw)
	tw.Flush()

	if s.SaveError != "" {
		fmt.Fprintf(w, "\nSave failed: %s\n", s.SaveError)
	}
}

// courseLister is the part of *client.Client the courses command needs.
type courseLister interface {
	ListCourses(ctx context.Context, search string) ([]api.Course, error)
}

// listCourses prints one line per matching course: id, name, location, hole count and par.
func listCourses(ctx context.Context, courses courseLister, search string, w io.Writer) error {
	found, err := courses.ListCourses(ctx, search)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(w, "No courses found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCourse\tLocation\tHoles\tPar")
	for _, c := range found {
		par := 0
		for _, h := range c.Holes {
			par += h.Par
		}
		fmt.Fprintf(tw, "%s\t%s\t%s, %s\t%d\t%d\n", c.ID, c.Name, c.City, c.State, len(c.Holes), par)
	}
	return tw.Flush()
}
