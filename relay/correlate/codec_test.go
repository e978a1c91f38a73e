package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, want := range []int64{1, 42, 123456789, 9007199254740993} {
		got, err := Decode(Encode(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecodeEmbeddedToken(t *testing.T) {
	text := "📩 *New Support Message*\n\n👤 User: Alice (@alice)\n🆔 USERID-987654\n📂 Category: Technical Support\n\n💬 Message:\nhelp me\n\n✍️ Reply to this message to respond"
	id, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, int64(987654), id)
}

func TestDecodeFirstTokenWins(t *testing.T) {
	id, err := Decode("USERID-111 then USERID-222")
	require.NoError(t, err)
	assert.Equal(t, int64(111), id)
}

func TestDecodeNoToken(t *testing.T) {
	for _, text := range []string{"", "hello", "USERID-", "userid-123", "USER ID 123"} {
		_, err := Decode(text)
		assert.ErrorIs(t, err, ErrNoToken, "text: %q", text)
	}
}
