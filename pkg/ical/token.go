package ical

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// FeedToken derives the per-user feed token. The token makes the otherwise
// unauthenticated feed URL unguessable; it is stable for a given user and
// secret so subscribed calendar clients keep working.
func FeedToken(secret string, userID int) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.Itoa(userID)))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidToken checks a presented token in constant time.
func ValidToken(secret string, userID int, token string) bool {
	return hmac.Equal([]byte(FeedToken(secret, userID)), []byte(token))
}
