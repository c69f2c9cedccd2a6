package repository

import (
	"context"

	"meubleerp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaisseRepository interface {
	Create(ctx context.Context, t *model.TransactionCaisse) error
	List(ctx context.Context) ([]model.TransactionCaisse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SoldeParMode sums entries per payment method, sorties counted negative.
	SoldeParMode(ctx context.Context) (map[string]decimal.Decimal, error)
}

type caisseRepo struct{ db *gorm.DB }

func NewCaisseRepository(db *gorm.DB) CaisseRepository { return &caisseRepo{db: db} }

func (r *caisseRepo) Create(ctx context.Context, t *model.TransactionCaisse) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *caisseRepo) List(ctx context.Context) ([]model.TransactionCaisse, error) {
	var txs []model.TransactionCaisse
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *caisseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TransactionCaisse{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *caisseRepo) SoldeParMode(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []struct {
		ModePaiement string
		Total        decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionCaisse{}).
		Select("mode_paiement, SUM(CASE WHEN type = 'sortie' THEN -montant ELSE montant END) AS total").
		Group("mode_paiement").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ModePaiement] = row.Total
	}
	return out, nil
}
