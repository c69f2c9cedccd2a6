package repository

import (
	"context"

	"meubleerp/internal/dto"
	"meubleerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProduitRepository defines the data access contract for catalogue items.
type ProduitRepository interface {
	Create(ctx context.Context, p *model.Produit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produit, error)
	FindByReference(ctx context.Context, reference string) (*model.Produit, error)
	List(ctx context.Context, filter dto.ProduitFilter) ([]model.Produit, int64, error)
	Update(ctx context.Context, p *model.Produit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type produitRepo struct{ db *gorm.DB }

func NewProduitRepository(db *gorm.DB) ProduitRepository { return &produitRepo{db: db} }

func (r *produitRepo) Create(ctx context.Context, p *model.Produit) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produit, error) {
	var p model.Produit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *produitRepo) FindByReference(ctx context.Context, reference string) (*model.Produit, error) {
	var p model.Produit
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *produitRepo) List(ctx context.Context, filter dto.ProduitFilter) ([]model.Produit, int64, error) {
	var produits []model.Produit
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produit{})

	// Actif filter: "false" = inactifs, "all" = tous, anything else = actifs
	switch filter.Actif {
	case "false":
		q = q.Where("actif = ?", false)
	case "all":
	default:
		q = q.Where("actif = ?", true)
	}
	if filter.Designation != "" {
		q = q.Where("LOWER(designation) LIKE LOWER(?)", "%"+filter.Designation+"%")
	}
	if filter.Categorie != "" {
		q = q.Where("categorie = ?", filter.Categorie)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("designation ASC").Limit(filter.Limit).Offset(offset).Find(&produits).Error
	return produits, total, err
}

func (r *produitRepo) Update(ctx context.Context, p *model.Produit) error {
	return r.db.WithContext(ctx).Omit("created_at").Save(p).Error
}

func (r *produitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Produit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
