package relay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haileylsn-oss/telegram-support-bot/journal"
	"github.com/haileylsn-oss/telegram-support-bot/relay/correlate"
	"github.com/haileylsn-oss/telegram-support-bot/session"
)

const operatorID int64 = 999

type sentMsg struct {
	chatID int64
	text   string
}

type fakeTransport struct {
	sent []sentMsg
	err  error
}

func (f *fakeTransport) Send(_ context.Context, chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMsg{chatID: chatID, text: text})
	return nil
}

type fakeRecorder struct {
	entries []journal.Entry
}

func (f *fakeRecorder) Record(_ context.Context, e journal.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeRecorder) Recent(context.Context, int) ([]journal.Entry, error) {
	return f.entries, nil
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, journal.Entry) error {
	return errors.New("journal: insert failed")
}

func (failingRecorder) Recent(context.Context, int) ([]journal.Entry, error) {
	return nil, errors.New("journal: select failed")
}

type fixture struct {
	engine    *Engine
	transport *fakeTransport
	recorder  *fakeRecorder
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		transport: &fakeTransport{},
		recorder:  &fakeRecorder{},
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.engine = New(Options{
		OperatorID: operatorID,
		Sessions:   session.NewStore(5 * time.Minute),
		Transport:  f.transport,
		Journal:    f.recorder,
		Clock:      func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

var alice = User{ID: 1001, FirstName: "Alice", Username: "alice"}

func TestTextWithoutSession(t *testing.T) {
	f := newFixture(t)

	reply := f.engine.UserText(context.Background(), alice, "hello?")
	assert.Contains(t, reply, "/start")
	assert.Empty(t, f.transport.sent, "nothing may reach the operator without a session")
}

func TestFullRelayFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	greeting := f.engine.Greet(ctx, alice)
	assert.Contains(t, greeting, "Alice")

	reply := f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	assert.Contains(t, reply, "Technical Support")

	reply = f.engine.UserText(ctx, alice, "my login is broken")
	assert.Contains(t, reply, "Message received")

	require.Len(t, f.transport.sent, 1)
	msg := f.transport.sent[0]
	assert.Equal(t, operatorID, msg.chatID)
	assert.Contains(t, msg.text, "my login is broken")
	assert.Contains(t, msg.text, "Technical Support")

	id, err := correlate.Decode(msg.text)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)

	require.Len(t, f.recorder.entries, 1)
	assert.Equal(t, journal.DirectionInbound, f.recorder.entries[0].Direction)

	// One-shot: the session was consumed by the relay.
	reply = f.engine.UserText(ctx, alice, "one more thing")
	assert.Contains(t, reply, "/start")
	assert.Len(t, f.transport.sent, 1)
}

func TestSessionExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.SelectCategory(ctx, alice, session.CategoryOther)
	f.advance(5*time.Minute + time.Second)

	reply := f.engine.UserText(ctx, alice, "still there?")
	assert.Contains(t, reply, "expired")
	assert.Empty(t, f.transport.sent)

	// The expired read consumed the session; the next attempt sees none.
	reply = f.engine.UserText(ctx, alice, "hello?")
	assert.Contains(t, reply, "/start")
}

func TestGreetResetsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	f.engine.Greet(ctx, alice)

	reply := f.engine.UserText(ctx, alice, "am I still connected?")
	assert.Contains(t, reply, "/start")
	assert.Empty(t, f.transport.sent)
}

func TestReselectionRestartsWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	f.advance(4 * time.Minute)
	f.engine.SelectCategory(ctx, alice, session.CategoryPartnership)
	f.advance(4 * time.Minute)

	reply := f.engine.UserText(ctx, alice, "about that deal")
	assert.Contains(t, reply, "Message received")
	require.Len(t, f.transport.sent, 1)
	assert.Contains(t, f.transport.sent[0].text, "Partnership Request")
}

func TestForwardFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	f.transport.err = errors.New("telegram: 502")

	reply := f.engine.UserText(ctx, alice, "first try")
	assert.Contains(t, reply, "Failed to send")
	assert.Empty(t, f.recorder.entries)

	// The session survives the failure, so a retry goes straight through.
	f.transport.err = nil
	reply = f.engine.UserText(ctx, alice, "second try")
	assert.Contains(t, reply, "Message received")
	require.Len(t, f.transport.sent, 1)
	assert.Contains(t, f.transport.sent[0].text, "second try")
}

func TestOperatorReplyRouting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	f.engine.UserText(ctx, alice, "help me")
	require.Len(t, f.transport.sent, 1)
	relayed := f.transport.sent[0].text

	reply := f.engine.OperatorText(ctx, "try resetting your password", relayed)
	assert.Contains(t, reply, "Reply sent to user 1001")

	require.Len(t, f.transport.sent, 2)
	out := f.transport.sent[1]
	assert.Equal(t, alice.ID, out.chatID)
	assert.Contains(t, out.text, "try resetting your password")
	assert.Contains(t, out.text, "Support Reply")

	require.Len(t, f.recorder.entries, 2)
	assert.Equal(t, journal.DirectionOutbound, f.recorder.entries[1].Direction)
}

func TestOperatorWithoutReply(t *testing.T) {
	f := newFixture(t)

	reply := f.engine.OperatorText(context.Background(), "hello?", "")
	assert.Contains(t, reply, "reply to a user message")
	assert.Empty(t, f.transport.sent)
}

func TestOperatorReplyWithoutToken(t *testing.T) {
	f := newFixture(t)

	reply := f.engine.OperatorText(context.Background(), "who is this for", "some ordinary message")
	assert.Contains(t, reply, "Could not find USER ID")
	assert.Empty(t, f.transport.sent)
}

func TestOperatorSendFailure(t *testing.T) {
	f := newFixture(t)
	f.transport.err = errors.New("telegram: 403 forbidden")

	reply := f.engine.OperatorText(context.Background(), "hi", correlate.Encode(alice.ID))
	assert.Contains(t, reply, "Failed to send reply")
	assert.Empty(t, f.recorder.entries)
}

func TestOperatorBranchTouchesNoSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An active session for the user whose token the operator replies to
	// must survive the operator turn untouched.
	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	f.engine.OperatorText(ctx, "proactive ping", correlate.Encode(alice.ID))

	reply := f.engine.UserText(ctx, alice, "my actual question")
	assert.Contains(t, reply, "Message received")
}

func TestJournalFailureDoesNotAffectRelay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.engine = New(Options{
		OperatorID: operatorID,
		Sessions:   session.NewStore(5 * time.Minute),
		Transport:  f.transport,
		Journal:    failingRecorder{},
		Clock:      func() time.Time { return f.now },
	})

	f.engine.SelectCategory(ctx, alice, session.CategorySupport)
	reply := f.engine.UserText(ctx, alice, "help me")
	assert.Contains(t, reply, "Message received")
	require.Len(t, f.transport.sent, 1)

	// The one-shot clear still happened despite the failed journal write.
	reply = f.engine.UserText(ctx, alice, "again")
	assert.Contains(t, reply, "/start")

	reply = f.engine.OperatorText(ctx, "resolved", correlate.Encode(alice.ID))
	assert.Contains(t, reply, "Reply sent to user 1001")
	require.Len(t, f.transport.sent, 2)
}

func TestIsOperator(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.engine.IsOperator(operatorID))
	assert.False(t, f.engine.IsOperator(alice.ID))
}

func TestRelayNoticeEscapesUserFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sneaky := User{ID: 7, FirstName: "*bold*", Username: "under_score"}
	f.engine.SelectCategory(ctx, sneaky, session.CategoryOther)
	f.engine.UserText(ctx, sneaky, "payload")

	require.Len(t, f.transport.sent, 1)
	text := f.transport.sent[0].text
	assert.Contains(t, text, `\*bold\*`)
	assert.Contains(t, text, `under\_score`)
	assert.False(t, strings.Contains(text, "(@under_score)"), "raw handle must not survive escaping")
}
