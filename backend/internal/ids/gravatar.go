package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// gravatarDefaults asks for the "mystery person" fallback image
const gravatarDefaults = "?d=mp&f=y"

// GravatarID is the content-addressed avatar key derived from an email address.
// The zero value stands for "no email".
type GravatarID struct {
	hash string
}

// NewGravatarID trims and lowercases email before hashing, so addresses that
// differ only in case or surrounding whitespace share one avatar.
func NewGravatarID(email string) GravatarID {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return GravatarID{}
	}
	sum := sha256.Sum256([]byte(normalized))
	return GravatarID{hash: hex.EncodeToString(sum[:])}
}

func (g GravatarID) String() string { return g.hash }

// ImageURL returns the avatar URL, falling back to the generic image without an email.
func (g GravatarID) ImageURL() string {
	return gravatarBaseURL + g.hash + gravatarDefaults
}

func (g GravatarID) MarshalText() ([]byte, error) { return []byte(g.hash), nil }
