package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/dialogs"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

type MsgProcessor struct {
	apiKey    string
	debugMode bool

	bot             *tgbotapi.BotAPI
	container       *dialogs.Container
	userDialogState *app.UserDialogState

	updates          tgbotapi.UpdatesChannel
	cancelDispatcher func()
	handlers         sync.WaitGroup

	muLocker     sync.Mutex
	lockByUserID map[int64]*sync.Mutex
}

func NewMsgProcessor(apiKey string, debugMode bool, container *dialogs.Container) *MsgProcessor {
	return &MsgProcessor{
		apiKey:          apiKey,
		debugMode:       debugMode,
		container:       container,
		userDialogState: app.NewUserDialogState(),
		lockByUserID:    make(map[int64]*sync.Mutex),
	}
}

func (p *MsgProcessor) connect() (err error) {
	if p.apiKey == "" {
		return errors.New("bot api key is not specified")
	}
	p.bot, err = tgbotapi.NewBotAPI(p.apiKey)
	if err != nil {
		return fmt.Errorf("can't create bot api: %w", err)
	}
	p.bot.Debug = p.debugMode
	return nil
}

// Shutdown stops receiving updates, cancels running downloads and waits until
// in-flight messages and downloads are done or ctx expires.
func (p *MsgProcessor) Shutdown(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	if p.bot != nil {
		p.bot.StopReceivingUpdates()
	}
	if p.cancelDispatcher != nil {
		p.cancelDispatcher()
	}

	controllers := p.userDialogState.Controllers()
	log.Infof("Cancelling downloads of %d users...", len(controllers))
	for _, c := range controllers {
		c.Cancel()
	}

	done := make(chan struct{})
	go func() {
		p.handlers.Wait()
		for _, c := range controllers {
			c.Wait()
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown is not complete: %w", ctx.Err())
	}
}
