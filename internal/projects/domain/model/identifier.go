package model

import (
	"strings"

	"github.com/google/uuid"
)

const (
	canonicalIDLength = 36
	maxUUID           = "ffffffff-ffff-ffff-ffff-ffffffffffff"
)

// IsValidID reports whether s is a UUID in canonical 8-4-4-4-12 text form
// with an RFC 4122 variant and a version between 1 and 8. The nil and max
// UUIDs are accepted as well. Case is ignored.
//
// uuid.Parse also accepts braced, urn-prefixed and unhyphenated forms; the
// length check rejects those before parsing.
func IsValidID(s string) bool {
	if len(s) != canonicalIDLength {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	if id == uuid.Nil || strings.EqualFold(s, maxUUID) {
		return true
	}
	v := id.Version()
	return v >= 1 && v <= 8 && id.Variant() == uuid.RFC4122
}
