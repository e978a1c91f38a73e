// Package relay implements the routing state machine of the support bot: it
// classifies every inbound event, consults the session store, and produces at
// most one outbound message per event. A single operator serves all users;
// replies are routed back via tokens embedded in the relayed text.
package relay

import (
	"context"
	"time"

	"log/slog"

	"github.com/haileylsn-oss/telegram-support-bot/core/logger"
	"github.com/haileylsn-oss/telegram-support-bot/journal"
	"github.com/haileylsn-oss/telegram-support-bot/relay/correlate"
	"github.com/haileylsn-oss/telegram-support-bot/session"
)

// Transport delivers a message to a chat. Sends must be synchronous: the
// engine decides session mutation based on the returned error.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// User identifies the sender of an inbound event.
type User struct {
	ID        int64
	FirstName string
	Username  string
}

// Options configures a new Engine.
type Options struct {
	// OperatorID is the single operator chat. Operator and user ID spaces
	// are disjoint by configuration contract.
	OperatorID int64
	Sessions   *session.Store
	Transport  Transport
	// Journal records relayed traffic; nil disables recording.
	Journal journal.Recorder
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Engine routes events between anonymous users and the operator. Every
// failure terminates in a reply text; nothing propagates past the engine.
type Engine struct {
	operatorID int64
	sessions   *session.Store
	transport  Transport
	journal    journal.Recorder
	clock      func() time.Time
}

// New builds an Engine from options, filling in defaults.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	return &Engine{
		operatorID: opts.OperatorID,
		sessions:   opts.Sessions,
		transport:  opts.Transport,
		journal:    opts.Journal,
		clock:      opts.Clock,
	}
}

// IsOperator reports whether a sender must take the operator branch. This
// check wins over any other classification of the message.
func (e *Engine) IsOperator(senderID int64) bool {
	return senderID == e.operatorID
}

// Greet handles the restart signal: any existing session is discarded and the
// user is asked to pick a category again.
func (e *Engine) Greet(ctx context.Context, user User) string {
	e.sessions.Clear(user.ID)
	logger.Debug(ctx, "relay", "session.reset",
		slog.Int64("user_id", user.ID),
	)
	return greeting(user.FirstName)
}

// SelectCategory opens a session for the user. Selecting again overwrites the
// previous session and restarts the expiry window.
func (e *Engine) SelectCategory(ctx context.Context, user User, cat session.Category) string {
	e.sessions.Start(user.ID, cat, e.clock())
	logger.Info(ctx, "relay", "session.start",
		slog.Int64("user_id", user.ID),
		slog.String("category", string(cat)),
	)
	return categorySelected(cat)
}

// UserText handles a free-text message from a user. With an active session
// the message is forwarded to the operator and the session is consumed
// (one-shot); on forward failure the session is kept so a delivery hiccup
// does not force the user back through category selection.
func (e *Engine) UserText(ctx context.Context, user User, text string) string {
	snap := e.sessions.Get(user.ID, e.clock())
	switch snap.View {
	case session.None:
		return replyNoSession
	case session.Expired:
		logger.Info(ctx, "relay", "session.expired",
			slog.Int64("user_id", user.ID),
			slog.String("category", string(snap.Category)),
		)
		return replyExpired
	}

	if err := e.transport.Send(ctx, e.operatorID, relayNotice(user, snap.Category, text)); err != nil {
		logger.Error(ctx, "relay", "forward.fail",
			slog.Int64("user_id", user.ID),
			slog.String("direction", journal.DirectionInbound),
			slog.String("err", err.Error()),
		)
		return replyRelayFail
	}

	e.sessions.Clear(user.ID)
	e.record(ctx, journal.Entry{
		UserID:    user.ID,
		Direction: journal.DirectionInbound,
		Category:  string(snap.Category),
		Body:      text,
	})
	logger.Info(ctx, "relay", "forward.ok",
		slog.Int64("user_id", user.ID),
		slog.String("category", string(snap.Category)),
	)
	return replyRelayed
}

// OperatorText handles any text from the operator. repliedTo carries the text
// of the quoted message when the update is a reply, empty otherwise. The
// operator holds no session, so nothing is mutated on this branch.
func (e *Engine) OperatorText(ctx context.Context, body, repliedTo string) string {
	if repliedTo == "" {
		return replyOperatorNeedsReply
	}

	userID, err := correlate.Decode(repliedTo)
	if err != nil {
		logger.Warn(ctx, "relay", "reply.decode_fail",
			slog.String("err", err.Error()),
		)
		return replyOperatorNoToken
	}

	if err := e.transport.Send(ctx, userID, supportReply(body)); err != nil {
		logger.Error(ctx, "relay", "reply.fail",
			slog.Int64("target_id", userID),
			slog.String("direction", journal.DirectionOutbound),
			slog.String("err", err.Error()),
		)
		return replyOperatorSendFail
	}

	e.record(ctx, journal.Entry{
		UserID:    userID,
		Direction: journal.DirectionOutbound,
		Body:      body,
	})
	logger.Info(ctx, "relay", "reply.ok",
		slog.Int64("target_id", userID),
	)
	return operatorDelivered(userID)
}

// record never affects the relay outcome; journal failures are logged only.
func (e *Engine) record(ctx context.Context, entry journal.Entry) {
	if err := e.journal.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "relay", "journal.fail",
			slog.Int64("user_id", entry.UserID),
			slog.String("direction", entry.Direction),
			slog.String("err", err.Error()),
		)
	}
}
