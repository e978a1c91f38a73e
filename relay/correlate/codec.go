// Package correlate embeds and extracts user identifiers in operator-facing
// message text. The operator conducts many conversations through a single
// chat, so every relayed message carries a token the operator's reply can be
// matched against without any server-side reply state.
package correlate

import (
	"errors"
	"regexp"
	"strconv"
)

const prefix = "USERID-"

// The token must be extractable from arbitrary surrounding text: relay
// messages wrap it in decoration, and operators quote them when replying.
var tokenRe = regexp.MustCompile(`USERID-(\d+)`)

// ErrNoToken reports that the text contains no valid user token.
var ErrNoToken = errors.New("correlate: no user token found")

// Encode renders a user ID as an embeddable token.
func Encode(userID int64) string {
	return prefix + strconv.FormatInt(userID, 10)
}

// Decode scans text for the first token occurrence and extracts the user ID.
// It matches a substring, never the whole text.
func Decode(text string) (int64, error) {
	m := tokenRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrNoToken
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrNoToken
	}
	return id, nil
}
