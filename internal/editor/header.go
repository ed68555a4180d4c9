package editor

import "strings"

// Header is the summary line shown above the score grid.
type Header struct {
	Course   string // course name
	Date     string // "Jun 1, 2024"
	Time     string // "8:30 AM"
	Location string // "Pinehurst, NC"
}

// Header formats the loaded scorecard's header. It is empty unless the view is Ready.
// Times are shown in the scorecard's own time zone.
func (v *View) Header() Header {
	s := v.State()
	if s.Phase != Ready {
		return Header{}
	}

	var place []string
	for _, p := range []string{s.Course.City, s.Course.State} {
		if p != "" {
			place = append(place, p)
		}
	}
	return Header{
		Course:   s.Course.Name,
		Date:     s.Scorecard.Date.Format("Jan 2, 2006"),
		Time:     s.Scorecard.Date.Format("3:04 PM"),
		Location: strings.Join(place, ", "),
	}
}
