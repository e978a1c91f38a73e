package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

// senderless mimics updates without a sender, such as channel posts.
type senderless struct{ tele.Context }

func (senderless) Sender() *tele.User { return nil }

func TestSenderOfWithoutSender(t *testing.T) {
	user := senderOf(senderless{})
	assert.Zero(t, user.ID)
	assert.Empty(t, user.FirstName)
	assert.Empty(t, user.Username)
}

func TestSenderOf(t *testing.T) {
	user := senderOf(withSender{u: &tele.User{ID: 7, FirstName: "Ann", Username: "ann"}})
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "ann", user.Username)
}

type withSender struct {
	tele.Context
	u *tele.User
}

func (w withSender) Sender() *tele.User { return w.u }
