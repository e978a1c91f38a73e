package relay

import (
	"fmt"

	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/format"
	"github.com/haileylsn-oss/telegram-support-bot/relay/correlate"
	"github.com/haileylsn-oss/telegram-support-bot/session"
)

const (
	replyNoSession = "⚠️ Please type /start and select an option first."
	replyExpired   = "⏰ Your session has expired.\n\nPlease type /start to begin again."
	replyRelayed   = "✅ Message received! Support will reply soon."
	replyRelayFail = "❌ Failed to send your message. Try again later."

	replyOperatorNeedsReply = "❌ Please reply to a user message."
	replyOperatorNoToken    = "❌ Could not find USER ID."
	replyOperatorSendFail   = "❌ Failed to send reply. User may not have started the bot."
)

// categoryPrompts is the single source for per-category follow-up questions.
// Every Category value must have exactly one entry here.
var categoryPrompts = map[session.Category]string{
	session.CategorySupport:     "🛠️ Please describe the technical issue you are facing.\n\nInclude error messages, screenshots, or steps if possible.",
	session.CategoryPartnership: "🤝 Please explain your partnership idea and how you would like to collaborate.",
	session.CategoryOther:       "❓ Please explain your request in detail.",
}

func greeting(firstName string) string {
	return fmt.Sprintf(
		"👋 Hi %s, thanks for reaching out!\n\n"+
			"If you have already read our FAQs and still need help, please select one of the options below.\n\n"+
			"⏳ Sessions expire after a few minutes.\n\n"+
			"🔐 Stay safe — never share your password or seed phrase.",
		firstName,
	)
}

func categorySelected(cat session.Category) string {
	return fmt.Sprintf("✅ *%s selected*\n\n%s", cat.Label(), categoryPrompts[cat])
}

// relayNotice builds the operator-facing message. Name and handle are user
// controlled and the message is sent as Markdown, so both are escaped. The
// correlation token must stay intact for reply routing.
func relayNotice(user User, cat session.Category, body string) string {
	handle := user.Username
	if handle == "" {
		handle = "no_username"
	}
	return fmt.Sprintf(
		"📩 *New Support Message*\n\n"+
			"👤 User: %s (@%s)\n"+
			"🆔 %s\n"+
			"📂 Category: %s\n\n"+
			"💬 Message:\n%s\n\n"+
			"✍️ Reply to this message to respond",
		escapeMD(user.FirstName), escapeMD(handle), correlate.Encode(user.ID), cat.Label(), body,
	)
}

func supportReply(body string) string {
	return fmt.Sprintf("💬 *Support Reply*\n\n%s", body)
}

func operatorDelivered(userID int64) string {
	return fmt.Sprintf("✅ Reply sent to user %d", userID)
}

func escapeMD(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return escaped
}
