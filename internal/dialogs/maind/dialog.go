package maind

import (
	"context"
	"strings"

	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

const cmdStart = "/start"

const greeting = "Пришлите ссылку на видео, и я скачаю его в самом высоком качестве."

type dialog struct {
	rup app.ReqUserProvider
}

func New(rup app.ReqUserProvider) app.Dialog {
	return &dialog{rup: rup}
}

func (d *dialog) OnEnter(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	log.Info("User entered to main dialog")
	return nil
}

// OnMessage hands any text over to the download dialog. Links are not validated
// here: a bad link ends up as a failure status of the download.
func (d *dialog) OnMessage(ctx context.Context, text string, msgID int) error {
	if strings.HasPrefix(strings.TrimSpace(text), cmdStart) {
		_, err := app.SendMessagef(ctx, d.rup, greeting)
		return err
	}
	downloadDlg, err := d.rup.RedirectToDialog(ctx, app.DialogDownload)
	if err != nil {
		return err
	}
	if err := downloadDlg.OnMessage(ctx, text, msgID); err != nil {
		return err
	}
	return nil
}
