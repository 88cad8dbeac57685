package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor is the opaque pagination state we encode/decode.
// ID + AtNano establish a stable keyset position; lists ordered purely by id
// leave AtNano empty. AtNano keeps the full precision the column returned, so
// rows sharing a millisecond are never skipped.
type Cursor struct {
	ID     uint64 `json:"id"`
	AtNano int64  `json:"at_nano,omitempty"`
}

// At builds a keyset cursor from a row's id and timestamp.
func At(id uint64, t time.Time) Cursor {
	return Cursor{ID: id, AtNano: t.UnixNano()}
}

// Time returns the cursor timestamp in UTC.
func (c Cursor) Time() time.Time {
	return time.Unix(0, c.AtNano).UTC()
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return c, nil
}

// Limit clamps a requested page size into [1, MaxLimit], defaulting when unset.
func Limit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// Token dereferences an optional token.
func Token(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
