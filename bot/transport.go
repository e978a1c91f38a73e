package bot

import (
	"context"
	"errors"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

var errTransportUnbound = errors.New("bot: transport not bound yet")

// teleTransport delivers relay messages through the live bot instance. The
// bot only exists once the runtime is up, so the pointer is bound on start.
// Sends stay synchronous: the relay engine inspects the error before it
// mutates session state.
type teleTransport struct {
	bot atomic.Pointer[tele.Bot]
}

func (t *teleTransport) bind(b *tele.Bot) {
	t.bot.Store(b)
}

func (t *teleTransport) Send(ctx context.Context, chatID int64, text string) error {
	b := t.bot.Load()
	if b == nil {
		return errTransportUnbound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.Send(tele.ChatID(chatID), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}
