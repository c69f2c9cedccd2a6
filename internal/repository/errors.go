package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the targeted row does not exist.
var ErrNotFound = errors.New("enregistrement introuvable")

// notFound maps gorm's record-not-found to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// conn returns tx when the caller runs inside a transaction, otherwise the repository's handle.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
