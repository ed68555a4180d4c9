// Package editor is the scorecard edit view: it loads one scorecard and its course,
// keeps the score matrix while the user edits cells, and saves or deletes the round.
//
// The view is UI-agnostic. A front end (the scorecard CLI, for one) calls Open, Edit,
// Save and the delete-dialog methods, and renders whatever State returns.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/trentd187/golf-scorecards/internal/api"
	"github.com/trentd187/golf-scorecards/internal/client"
	"github.com/trentd187/golf-scorecards/internal/scorecard"
)

// Backend is the part of the API the view needs. *client.Client implements it.
// Missing documents must be reported as errors matching client.ErrNotFound.
type Backend interface {
	GetScorecard(ctx context.Context, id string) (*api.Scorecard, error)
	GetCourse(ctx context.Context, id string) (*api.Course, error)
	ReplacePlayers(ctx context.Context, id string, players []api.Player) (*api.Scorecard, error)
	DeleteScorecard(ctx context.Context, id string) (*api.DeleteScorecardResponse, error)
}

// Phase is where the view is in its lifecycle.
type Phase int

const (
	Loading  Phase = iota // nothing loaded yet, or a load is in flight
	NotFound              // the scorecard or its course does not exist
	Ready                 // scorecard, course and matrix are loaded
	Failed                // a load failed for any other reason; see State.Err
	Deleted               // the scorecard was deleted; the front end should navigate away
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case NotFound:
		return "not found"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is a snapshot of the view. Scorecard, Course and Matrix are only meaningful
// in the Ready phase.
type State struct {
	Phase     Phase
	Scorecard *api.Scorecard
	Course    *api.Course
	Matrix    scorecard.Matrix
	Err       error

	SaveError   string  // message of the last failed save, verbatim from the server
	Dialog      *Dialog // open confirmation dialog, if any
	DeleteError string  // message of the last failed delete

	FriendsUpdated int // set once Deleted
}

// View is one scorecard edit view. It is safe for concurrent use; network calls run
// without holding the lock, and a load whose (identity, id) is no longer current is
// thrown away when it completes.
type View struct {
	backend Backend

	mu       sync.Mutex
	identity string
	id       string
	gen      int // bumped on every Open that starts a load
	state    State
}

// New returns a view in the Loading phase.
func New(backend Backend) *View {
	return &View{backend: backend}
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Open shows scorecard id for identity (the signed-in user). Nothing is fetched until
// identity is non-empty, and nothing is refetched while (identity, id) stays the same.
// Loading fetches the scorecard, then its course; it ends in Ready, NotFound or Failed.
func (v *View) Open(ctx context.Context, identity, id string) State {
	v.mu.Lock()
	if identity == "" {
		v.identity, v.id = "", id
		v.gen++
		v.state = State{Phase: Loading}
		v.mu.Unlock()
		return v.State()
	}
	if identity == v.identity && id == v.id {
		s := v.state
		v.mu.Unlock()
		return s
	}
	v.identity, v.id = identity, id
	v.gen++
	gen := v.gen
	v.state = State{Phase: Loading}
	v.mu.Unlock()

	next := v.load(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen == v.gen {
		v.state = next
	}
	return v.state
}

func (v *View) load(ctx context.Context, id string) State {
	sc, err := v.backend.GetScorecard(ctx, id)
	if err != nil {
		return loadFailed(err)
	}
	course, err := v.backend.GetCourse(ctx, sc.Course)
	if err != nil {
		return loadFailed(err)
	}
	return State{
		Phase:     Ready,
		Scorecard: sc,
		Course:    course,
		Matrix:    scorecard.NewMatrix(course.Holes, sc.Players),
	}
}

func loadFailed(err error) State {
	if errors.Is(err, client.ErrNotFound) {
		return State{Phase: NotFound}
	}
	return State{Phase: Failed, Err: err}
}

// Edit stores the text typed into the cell for player ref at hole index hole (0 is the
// first hole). Empty or non-numeric input becomes 0. Each edit replaces the matrix with
// a new one; nothing is sent to the server until Save.
func (v *View) Edit(ref string, hole int, input string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Phase != Ready {
		return fmt.Errorf("cannot edit a scorecard that is %s", v.state.Phase)
	}
	next, err := v.state.Matrix.Set(ref, hole, scorecard.ParseScore(input))
	if err != nil {
		return err
	}
	v.state.Matrix = next
	return nil
}

// Save sends every player's scores for every hole of the loaded course, each carrying
// the course's par for that hole. A failed save is recorded in State.SaveError and
// returned; the matrix keeps the user's edits either way.
func (v *View) Save(ctx context.Context) error {
	v.mu.Lock()
	if v.state.Phase != Ready {
		phase := v.state.Phase
		v.mu.Unlock()
		return fmt.Errorf("cannot save a scorecard that is %s", phase)
	}
	id := v.state.Scorecard.ID
	players := scorecard.BuildPlayers(v.state.Course.Holes, v.state.Matrix)
	v.mu.Unlock()

	_, err := v.backend.ReplacePlayers(ctx, id, players)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Phase != Ready || v.state.Scorecard.ID != id {
		return err
	}
	if err != nil {
		v.state.SaveError = message(err)
		return err
	}
	v.state.SaveError = ""
	return nil
}

// message is what the user sees for a failed call: the server's own message when
// there is one.
func message(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
