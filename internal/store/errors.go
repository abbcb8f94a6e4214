package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrIntegrity marks a constraint or invariant violation on write. The
// offending transaction is rolled back in full; nothing partial persists.
var ErrIntegrity = errors.New("integrity violation")

// ErrNotFound is returned when a referenced entity id does not exist.
var ErrNotFound = errors.New("not found")

// integrityErr wraps err as an ErrIntegrity with context.
func integrityErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// classify maps driver-level constraint failures onto ErrIntegrity so callers
// can match with errors.Is regardless of which statement tripped.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}
