package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/trentd187/golf-scorecards/internal/client"
)

// Dialog is the delete confirmation overlay. The view only describes it; the front
// end draws it and reports back through ConfirmDelete or Dismiss.
type Dialog struct {
	Title   string
	Message string
	Confirm string
	Cancel  string
}

// DismissReason says how a dialog was closed without confirming.
type DismissReason int

const (
	DismissOutside DismissReason = iota // click or tap outside the dialog
	DismissCancel                       // the cancel button, or Escape
)

// RequestDelete opens the confirmation dialog.
func (v *View) RequestDelete() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Phase != Ready {
		return fmt.Errorf("cannot delete a scorecard that is %s", v.state.Phase)
	}
	v.state.DeleteError = ""
	v.state.Dialog = &Dialog{
		Title:   "Delete scorecard?",
		Message: fmt.Sprintf("This removes the round at %s for every player.", v.state.Course.Name),
		Confirm: "Delete",
		Cancel:  "Cancel",
	}
	return nil
}

// Dismiss closes the dialog, leaving the scorecard alone.
func (v *View) Dismiss(DismissReason) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Dialog = nil
}

// ConfirmDelete deletes the scorecard. The server removes the friends' summaries of it
// in the same transaction, so once this succeeds there is nothing left to clean up and
// the view moves to Deleted. A scorecard that is already gone counts as deleted.
// Any other failure closes the dialog, keeps the scorecard loaded and sets
// State.DeleteError.
func (v *View) ConfirmDelete(ctx context.Context) error {
	v.mu.Lock()
	if v.state.Dialog == nil || v.state.Phase != Ready {
		v.mu.Unlock()
		return errors.New("no delete to confirm")
	}
	id := v.state.Scorecard.ID
	v.state.Dialog = nil
	v.mu.Unlock()

	resp, err := v.backend.DeleteScorecard(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case err == nil:
		v.state = State{Phase: Deleted, FriendsUpdated: resp.FriendsUpdated}
		return nil
	case errors.Is(err, client.ErrNotFound):
		v.state = State{Phase: Deleted}
		return nil
	default:
		v.state.DeleteError = message(err)
		return err
	}
}
