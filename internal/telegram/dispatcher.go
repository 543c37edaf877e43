package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

const messageHandlingTimeout = 8 * time.Second

func (p *MsgProcessor) startDispatcher() {
	ctx := context.Background()
	ctx, p.cancelDispatcher = context.WithCancel(ctx)
	go p.startUpdListener(ctx)
}

func (p *MsgProcessor) startUpdListener(gCtx context.Context) {
	log := logging.FromContextS(gCtx)
	log.Info("Message receiver started... The bot is ready to process new messages!")
	for {
		var upd tgbotapi.Update
		select {
		case <-gCtx.Done():
			log.Info("Message receiver stopped.")
			return
		case u, ok := <-p.updates:
			if !ok {
				log.Info("Updates channel closed. Message receiver stopped.")
				return
			}
			upd = u
		}
		if upd.Message == nil || upd.Message.From == nil {
			continue
		}
		msg := upd.Message

		p.handlers.Add(1)
		go func() {
			defer p.handlers.Done()
			p.handleMessage(msg)
		}()
	}
}

func (p *MsgProcessor) userLock(userID int64) *sync.Mutex {
	p.muLocker.Lock()
	defer p.muLocker.Unlock()
	mu, ok := p.lockByUserID[userID] // we can handle only one message from certain user at once
	if !ok {
		mu = new(sync.Mutex)
		p.lockByUserID[userID] = mu
	}
	return mu
}

func (p *MsgProcessor) handleMessage(msg *tgbotapi.Message) {
	from := msg.From
	mu := p.userLock(from.ID)
	start := time.Now()
	mu.Lock()
	defer mu.Unlock()

	// Parent of this context is Background, not the dispatcher's one: stopping the
	// dispatcher shouldn't interrupt message handling.
	ctx, cancel := context.WithTimeout(context.Background(), messageHandlingTimeout)
	defer cancel()

	rqID := genRequestID()
	userID := from.ID
	ctx, log := logging.NewContextSL(ctx,
		"request_id", rqID,
		"user_tg_id", userID,
		"user_name", from.UserName,
	)
	text := msg.Text
	log.Infof("Received message %q", text)
	rup := NewReqUserProvider(p.bot, from, p.userDialogState, p.container)
	defer func() {
		if r := recover(); r != nil {
			log.With("recovered_obj", r).Error("!!! A PANIC occurred while handling query !!! See recovered object in recovered_obj!")
			_, _ = app.SendMessagef(ctx, rup, "При обработке вашего сообщения произошла ошибка. Идентификатор запроса: %v", rqID)
		}
		log.Infow("Query is proceeded.",
			"total_elapsed_time", time.Since(start),
		)
	}()

	currentDialog := p.userDialogState.FindDialogByUser(userID)
	if currentDialog == nil {
		var err error
		currentDialog, err = p.initUser(ctx, rup)
		if err != nil {
			log.Errorf("Failed to init user: %v", err)
			_, _ = app.SendMessagef(ctx, rup, "При регистрации вашего пользователя в системе произошла ошибка. Идентификатор запроса: %v", rqID)
			return
		}
	}
	if err := currentDialog.OnMessage(ctx, text, msg.MessageID); err != nil {
		log.Errorf("Failed to process message: %v", err)
		var usrErr *app.UserError
		if errors.As(err, &usrErr) {
			_, _ = app.SendMessagef(ctx, rup, "%s", usrErr.UserMessage)
		} else {
			_, _ = app.SendMessagef(ctx, rup, "При обработке сообщения возникла ошибка. Повторите попытку позже. Идентификатор запроса: %v", rqID)
		}
	}
}

func (p *MsgProcessor) initUser(ctx context.Context, rup app.ReqUserProvider) (mainDlg app.Dialog, err error) {
	mainDlg, err = rup.RedirectToDialog(ctx, app.DialogMain)
	if err != nil {
		return mainDlg, fmt.Errorf("failed to redirect to main dialog: %w", err)
	}
	return mainDlg, err
}

func genRequestID() string {
	rid, _ := uuid.NewRandom()
	return rid.String()
}
