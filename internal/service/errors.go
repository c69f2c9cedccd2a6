package service

import (
	"context"
	"errors"
	"fmt"

	"meubleerp/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrValidation marks a request the caller must fix; nothing was persisted.
	ErrValidation = errors.New("requête invalide")
	// ErrNotFound is returned when the targeted record does not exist.
	ErrNotFound = errors.New("introuvable")
	// ErrIndisponible is returned when an optional collaborator (queue, cache) is not configured.
	ErrIndisponible = errors.New("service indisponible")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapNotFound turns a repository miss into ErrNotFound with context.
func mapNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// runTx runs fn inside a transaction on db. A nil db (unit tests with stub
// repositories) calls fn with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
