package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/downloader"
	"github.com/vm-affekt/ytsaver/internal/logging"
	"github.com/vm-affekt/ytsaver/internal/progress"
)

const (
	btnStop   = "Прервать"
	btnStatus = "Статус"
)

const msgAlreadyDone = "Загрузка уже завершена."

// KeyboardOnWait is shown to the user while a download is running.
var KeyboardOnWait = tgbotapi.NewOneTimeReplyKeyboard(
	[]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(btnStop),
		tgbotapi.NewKeyboardButton(btnStatus),
	},
)

type dialog struct {
	rup        app.ReqUserProvider
	controller *app.Controller

	messagesToDelete messagesToDelete
}

type messagesToDelete struct {
	mu  sync.Mutex
	ids []int
}

func (mtd *messagesToDelete) addMessage(id int) {
	mtd.mu.Lock()
	defer mtd.mu.Unlock()
	mtd.ids = append(mtd.ids, id)
}

func (mtd *messagesToDelete) takeIDs() []int {
	mtd.mu.Lock()
	defer mtd.mu.Unlock()
	ids := mtd.ids
	mtd.ids = nil
	return ids
}

func New(rup app.ReqUserProvider) app.Dialog {
	return &dialog{
		rup:        rup,
		controller: rup.Controller(),
	}
}

func (d *dialog) OnEnter(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	log.Info("User entered to download dialog")
	return nil
}

// OnLeave removes the service messages collected while the download was running.
func (d *dialog) OnLeave(ctx context.Context) error {
	ids := d.messagesToDelete.takeIDs()
	if len(ids) == 0 {
		return nil
	}
	go func() {
		if err := d.rup.DeleteMessages(ctx, ids...); err != nil {
			logging.FromContextS(ctx).Errorf("Failed to delete messages: %v", err)
		}
	}()
	return nil
}

func (d *dialog) OnMessage(ctx context.Context, text string, msgID int) error {
	if d.controller.State() == app.StateIdle {
		if text == btnStop || text == btnStatus {
			// a button left over from a finished download
			_, err := app.SendMessagef(ctx, d.rup, msgAlreadyDone)
			return err
		}
		d.controller.SetInput(text)
		err := d.controller.Trigger(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, app.ErrDownloadInProgress) {
			return fmt.Errorf("failed to start downloading: %w", err)
		}
	}
	d.messagesToDelete.addMessage(msgID)
	return d.onDownloading(ctx, text)
}

func (d *dialog) sendMsgWithKeyboardThenDeletef(ctx context.Context, text string, vals ...interface{}) (err error) {
	msgID, err := d.rup.SendMessageWithKeyboardf(ctx, &KeyboardOnWait, text, vals...)
	if err != nil {
		return err
	}
	d.messagesToDelete.addMessage(msgID)
	return nil
}

func (d *dialog) onDownloading(ctx context.Context, text string) error {
	if err := downloader.ValidateLink(text); err == nil {
		return app.
			NewUserError("Вы не можете скачивать другие видео, пока не завершится текущая загрузка! Вы можете ее отменить.").
			WithCause(app.ErrDownloadInProgress)
	}
	if text == btnStop {
		if err := d.stopDownloading(ctx); err != nil {
			return fmt.Errorf("failed to stop downloading: %w", err)
		}
		return nil
	}
	if err := d.printCurrentDownloadStatus(ctx); err != nil {
		return fmt.Errorf("failed to print current download status: %w", err)
	}
	return nil
}

func (d *dialog) printCurrentDownloadStatus(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	log.Info("User requested progress status of downloading.")
	pc := d.controller.Progress()
	if pc == nil {
		_, err := app.SendMessagef(ctx, d.rup, msgAlreadyDone)
		return err
	}
	return d.sendMsgWithKeyboardThenDeletef(ctx, "%s", describeProgress(pc, log.Warnf))
}

func describeProgress(pc *progress.Counter, warnf func(string, ...interface{})) string {
	contentLen := pc.ContentLen()
	contentLenMB, currentDownloadedMB := bytesToMegabytes(contentLen), bytesToMegabytes(pc.CurrentDownloaded())
	if contentLen == 0 {
		return fmt.Sprintf("На данный момент загружено <b>%.2fMB</b>. Определить прогресс в процентах для данного видео невозможно...", currentDownloadedMB)
	}
	estimatedTimeS := "???"
	estimatedTime, err := pc.EstimatedTime()
	if err != nil {
		warnf("Failed to count estimated time by reason: %v", err)
	} else {
		estimatedTimeS = estimatedTime.Round(time.Second).String()
	}
	return fmt.Sprintf("На данный момент загружено\n<i>%.2fMB</i> из <i>%.2fMB</i>: <b>%.2f%%</b>\nПриблизительно осталось: <b>%s</b>", currentDownloadedMB, contentLenMB, pc.Percentage(), estimatedTimeS)
}

func (d *dialog) stopDownloading(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	log.Info("User requested to stop downloading!")
	if !d.controller.Cancel() {
		_, err := app.SendMessagef(ctx, d.rup, msgAlreadyDone)
		return err
	}
	return d.sendMsgWithKeyboardThenDeletef(ctx, "Загрузка прерывается...")
}

const oneMB = 1048576

func bytesToMegabytes(bytes int64) float64 {
	return float64(bytes) / float64(oneMB)
}
