package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meubleerp/internal/dto"
	"meubleerp/internal/model"
	"meubleerp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CaisseService manages the cash register ledger.
type CaisseService interface {
	Enregistrer(ctx context.Context, req dto.TransactionCaisseRequest) (*dto.TransactionCaisseResponse, error)
	Lister(ctx context.Context) ([]dto.TransactionCaisseResponse, error)
	Supprimer(ctx context.Context, id uuid.UUID) error
	Solde(ctx context.Context) (*dto.SoldeCaisseResponse, error)
}

type caisseService struct {
	repo repository.CaisseRepository
}

func NewCaisseService(repo repository.CaisseRepository) CaisseService {
	return &caisseService{repo: repo}
}

func (s *caisseService) Enregistrer(ctx context.Context, req dto.TransactionCaisseRequest) (*dto.TransactionCaisseResponse, error) {
	if !req.Montant.IsPositive() {
		return nil, invalid("le montant doit être positif")
	}
	t := &model.TransactionCaisse{
		Type:         req.Type,
		ModePaiement: req.ModePaiement,
		Montant:      req.Montant.Round(2),
		Description:  strings.TrimSpace(req.Description),
		Reference:    req.Reference,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("enregistrement caisse: %w", err)
	}
	log.Info().
		Str("type", t.Type).
		Str("mode_paiement", t.ModePaiement).
		Str("montant", t.Montant.StringFixed(2)).
		Msg("caisse: transaction enregistrée")
	return transactionToResponse(t), nil
}

func (s *caisseService) Lister(ctx context.Context) ([]dto.TransactionCaisseResponse, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionCaisseResponse, 0, len(txs))
	for i := range txs {
		out = append(out, *transactionToResponse(&txs[i]))
	}
	return out, nil
}

func (s *caisseService) Supprimer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err, "transaction "+id.String())
	}
	return nil
}

func (s *caisseService) Solde(ctx context.Context) (*dto.SoldeCaisseResponse, error) {
	parMode, err := s.repo.SoldeParMode(ctx)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for mode, v := range parMode {
		v = v.Round(2)
		parMode[mode] = v
		total = total.Add(v)
	}
	return &dto.SoldeCaisseResponse{ParMode: parMode, Total: total}, nil
}

func transactionToResponse(t *model.TransactionCaisse) *dto.TransactionCaisseResponse {
	return &dto.TransactionCaisseResponse{
		ID:           t.ID.String(),
		Type:         t.Type,
		ModePaiement: t.ModePaiement,
		Montant:      t.Montant,
		MontantSigne: t.MontantSigne(),
		Description:  t.Description,
		Reference:    t.Reference,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}
