package app

import "context"

// ReconciliationWatcher turns "the user came back to the session view" events
// into a forced refresh. There is no push channel from the collaborator; this
// is how a deletion made on the management surface reaches an open session.
type ReconciliationWatcher struct {
	controller *SessionController
}

// ViewEntered signals re-entry into the session view.
func (w *ReconciliationWatcher) ViewEntered(ctx context.Context) {
	w.controller.OnExternalChange(ctx)
}
