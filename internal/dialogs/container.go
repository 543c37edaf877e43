package dialogs

import (
	"context"
	"time"

	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/dialogs/download"
	"github.com/vm-affekt/ytsaver/internal/dialogs/maind"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

// Container is DI-container of app
type Container struct {
	downloadService app.DownloadService
	downloadTimeout time.Duration
}

func NewContainer(downloadService app.DownloadService, downloadTimeout time.Duration) *Container {
	return &Container{
		downloadService: downloadService,
		downloadTimeout: downloadTimeout,
	}
}

func (c *Container) CreateDialog(id app.DialogID, rup app.ReqUserProvider) app.Dialog {
	switch id {
	case app.DialogMain:
		return maind.New(rup)
	case app.DialogDownload:
		return download.New(rup)
	}
	return nil
}

// NewController creates the download controller of the user behind rup. When a
// download completes the user is sent back to the main dialog.
func (c *Container) NewController(rup app.ReqUserProvider) *app.Controller {
	return app.NewController(c.downloadService, &statusView{rup: rup},
		app.WithTimeout(c.downloadTimeout),
		app.WithCompletion(func(ctx context.Context, _ app.Outcome) {
			if _, err := rup.RedirectToDialog(ctx, app.DialogMain); err != nil {
				logging.FromContextS(ctx).Errorf("Failed to redirect to main dialog after download: %v", err)
			}
		}),
	)
}
