package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository is the persistence contract shared by the four numbered
// document tables. T is the concrete model (model.Devis, model.Facture …).
type DocumentRepository[T any] interface {
	// Create inserts doc. Pass the allocation transaction as tx.
	Create(ctx context.Context, tx *gorm.DB, doc *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	// List returns every document, most recent first.
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NumeroExiste reports whether a stored document already carries numero.
	NumeroExiste(ctx context.Context, tx *gorm.DB, numero string) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type documentRepo[T any] struct{ db *gorm.DB }

func NewDocumentRepository[T any](db *gorm.DB) DocumentRepository[T] {
	return &documentRepo[T]{db: db}
}

func (r *documentRepo[T]) Create(ctx context.Context, tx *gorm.DB, doc *T) error {
	return conn(r.db, tx).WithContext(ctx).Create(doc).Error
}

func (r *documentRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var doc T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

func (r *documentRepo[T]) List(ctx context.Context) ([]T, error) {
	var docs []T
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// Update saves every column except numero_document, which is immutable once allocated.
func (r *documentRepo[T]) Update(ctx context.Context, doc *T) error {
	return r.db.WithContext(ctx).Omit("numero_document", "created_at").Save(doc).Error
}

func (r *documentRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo[T]) NumeroExiste(ctx context.Context, tx *gorm.DB, numero string) (bool, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(new(T)).
		Where("numero_document = ?", numero).
		Count(&n).Error
	return n > 0, err
}

func (r *documentRepo[T]) DB() *gorm.DB { return r.db }
