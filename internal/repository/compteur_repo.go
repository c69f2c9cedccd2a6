package repository

import (
	"context"
	"strconv"
	"time"

	"meubleerp/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompteurRepository stores one sequence counter per document kind.
// Both methods are meant to run inside the caller's transaction so the
// counter write commits or rolls back together with the document insert.
type CompteurRepository interface {
	// GetOrCreate returns the counter for kind, creating it at "1" when absent.
	// The row is locked until tx ends (no-op on SQLite).
	GetOrCreate(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (*model.Compteur, error)
	// Advance overwrites the counter with valeur.
	Advance(ctx context.Context, tx *gorm.DB, kind model.DocumentKind, valeur int64) error
}

type compteurRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCompteurRepository(db *gorm.DB) CompteurRepository {
	return &compteurRepo{db: db, now: time.Now}
}

func (r *compteurRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, kind model.DocumentKind) (*model.Compteur, error) {
	db := conn(r.db, tx).WithContext(ctx)

	seed := model.Compteur{Type: kind, Valeur: "1", DerniereMiseAJour: r.now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var c model.Compteur
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ?", kind).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *compteurRepo) Advance(ctx context.Context, tx *gorm.DB, kind model.DocumentKind, valeur int64) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&model.Compteur{}).
		Where("type = ?", kind).
		Updates(map[string]interface{}{
			"valeur":               strconv.FormatInt(valeur, 10),
			"derniere_mise_a_jour": r.now(),
		}).Error
}
