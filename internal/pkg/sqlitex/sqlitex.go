// Package sqlitex provides small write helpers for the SQLite store.
package sqlitex

import (
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	writeRetries    = 3
	writeRetryDelay = 50 * time.Millisecond
)

// PerformWrite runs fn in a transaction, retrying a few times when SQLite
// reports the database as busy or locked.
func PerformWrite(logger *slog.Logger, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < writeRetries; attempt++ {
		err = db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !IsBusyError(err) {
			return err
		}
		logger.Warn("Database busy, retrying write",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))
		time.Sleep(writeRetryDelay * time.Duration(attempt+1))
	}
	return err
}

// IsBusyError reports whether err looks like SQLITE_BUSY contention.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
