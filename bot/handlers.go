package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/callbacks"
	tghelpers "github.com/haileylsn-oss/telegram-support-bot/core/telegram/helpers"
	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/keyboard"
	"github.com/haileylsn-oss/telegram-support-bot/journal"
	"github.com/haileylsn-oss/telegram-support-bot/relay"
	"github.com/haileylsn-oss/telegram-support-bot/relay/correlate"
	"github.com/haileylsn-oss/telegram-support-bot/session"
)

const replyUnsupported = "⚠️ Only text messages are supported. Please describe your issue in text."

var categoryButtonLabels = map[session.Category]string{
	session.CategorySupport:     "Technical Support 🛠️",
	session.CategoryPartnership: "Partnership Request 🤝",
	session.CategoryOther:       "Something Else ❓",
}

func senderOf(c tele.Context) relay.User {
	u := c.Sender()
	if u == nil {
		return relay.User{}
	}
	return relay.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		Username:  u.Username,
	}
}

func categoryKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(session.Categories()))
	for _, cat := range session.Categories() {
		// The category token is the callback unique, as the registry
		// routes callbacks by unique.
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   categoryButtonLabels[cat],
			Unique: string(cat),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	greeting := a.engine.Greet(ctx, senderOf(c))
	return tghelpers.SendText(c, greeting, &tele.SendOptions{ReplyMarkup: categoryKeyboard()})
}

func (a *App) handleCategory(c tele.Context) error {
	cat, ok := session.ParseCategory(callbacks.CallbackKey(c))
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
	ctx := tghelpers.BuildContext(c)
	reply := a.engine.SelectCategory(ctx, senderOf(c), cat)
	return tghelpers.SendMD(c, reply)
}

func (a *App) handleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := senderOf(c)

	if a.engine.IsOperator(user.ID) {
		repliedTo := ""
		if m := c.Message(); m != nil && m.ReplyTo != nil {
			repliedTo = m.ReplyTo.Text
		}
		return tghelpers.SendText(c, a.engine.OperatorText(ctx, c.Text(), repliedTo))
	}

	return tghelpers.SendText(c, a.engine.UserText(ctx, user, c.Text()))
}

func (a *App) handleRecent(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	entries, err := a.journal.Recent(ctx, 10)
	if err != nil {
		if errors.Is(err, journal.ErrDisabled) {
			return tghelpers.SendText(c, "📭 Journal is disabled: no database configured.")
		}
		return err
	}
	if len(entries) == 0 {
		return tghelpers.SendText(c, "📭 No relayed messages yet.")
	}

	var b strings.Builder
	b.WriteString("🗂 Recent relayed messages:\n")
	for _, e := range entries {
		arrow := "⬅️"
		if e.Direction == journal.DirectionOutbound {
			arrow = "➡️"
		}
		line := fmt.Sprintf("\n%s %s [%s] %s",
			arrow, correlate.Encode(e.UserID), e.CreatedAt.Format("Jan 2 15:04"), truncate(e.Body, 80))
		b.WriteString(line)
	}
	return tghelpers.SendText(c, b.String())
}

func (a *App) handleUnsupported(c tele.Context) error {
	if a.engine.IsOperator(senderOf(c).ID) {
		return nil
	}
	return tghelpers.SendText(c, replyUnsupported)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
