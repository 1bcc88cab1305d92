// Package pagination encodes opaque keyset cursors for journal listings.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last entry on a page. Listings are ordered
// newest first by (entry date, created at, id).
type Cursor struct {
	EntryDate domain.Date
	CreatedAt time.Time
	ID        string
}

// CursorFor returns the cursor positioned at entry.
func CursorFor(entry domain.JournalEntry) Cursor {
	return Cursor{EntryDate: entry.EntryDate, CreatedAt: entry.CreatedAt, ID: entry.ID}
}

// After reports whether entry sorts strictly after the cursor in newest-first order.
func (c Cursor) After(entry domain.JournalEntry) bool {
	if !entry.EntryDate.Equal(c.EntryDate) {
		return entry.EntryDate.Before(c.EntryDate)
	}
	if !entry.CreatedAt.Equal(c.CreatedAt) {
		return entry.CreatedAt.Before(c.CreatedAt)
	}
	return entry.ID < c.ID
}

// EncodeToken creates a base64 encoded token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.EntryDate.String(), c.CreatedAt.Format(timeFormat), c.ID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := domain.ParseDate(parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	if parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (missing id)")
	}

	return Cursor{EntryDate: entryDate, CreatedAt: createdAt, ID: parts[2]}, nil
}
