package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTxAttempts = 3

// forUpdate adds a row lock on postgres. sqlite has a single writer, so the
// clause is skipped there; the in-memory test database still serializes.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isSerializationFailure reports whether err is a postgres serialization or
// deadlock failure worth retrying.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// withRetry runs fn in a transaction, retrying serialization and deadlock
// failures up to maxTxAttempts before surfacing ErrConcurrencyConflict.
func withRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return ErrConcurrencyConflict
}
