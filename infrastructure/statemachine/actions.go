package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/workflow-go/infrastructure/logging"
)

// logStatusEntry logs entry into a status state.
// In statekit, actions receive a pointer to the context. Since our context
// is *Context, actions receive **Context.
func logStatusEntry(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	logging.Debug().
		Add(logging.RunID((*ctx).RunID)).
		Add(logging.Str("event", string(event.Type))).
		Msg("run status entered")
}
