package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL derives a deterministic avatar URL from an email address:
// 200px, PG rated, with the "mystery man" fallback image.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
