package learn

import (
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/translate"
)

// startedMsg is sent when the unit has loaded and the opening turn exists.
type startedMsg struct {
	Labels translate.Labels
	Err    error
}

// commandDoneMsg is sent when a controller command returns.
type commandDoneMsg struct {
	Op      string
	Verdict session.Verdict
	Err     error
}

// prefsAppliedMsg is sent once new preferences are in effect.
type prefsAppliedMsg struct {
	Labels translate.Labels
}
