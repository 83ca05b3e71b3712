// Package storage holds the object store behind logo assets. Writes and
// deletes are scoped acquisitions: the settings service stores the new
// object before touching the account row and removes whichever object the
// row no longer references, so a failure never leaves the account pointing
// at a missing key.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ObjectStore stores opaque binary assets under generated keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// LogoKey builds a date-partitioned storage key for a logo upload.
func LogoKey(accountID uuid.UUID) string {
	d := time.Now()
	return fmt.Sprintf("logos/%d/%02d/%s-%s", d.Year(), d.Month(), accountID, uuid.New())
}
