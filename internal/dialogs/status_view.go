package dialogs

import (
	"context"
	"html"

	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/dialogs/download"
)

// statusView sends every status as a chat message. The cancel/status keyboard
// stays visible while the download runs.
type statusView struct {
	rup app.ReqUserProvider
}

func (v *statusView) ShowStatus(ctx context.Context, state app.State, text string) error {
	text = html.EscapeString(text)
	if state == app.StateRunning {
		_, err := v.rup.SendMessageWithKeyboardf(ctx, &download.KeyboardOnWait, "<b>%s</b>", text)
		return err
	}
	_, err := app.SendMessagef(ctx, v.rup, "%s", text)
	return err
}
