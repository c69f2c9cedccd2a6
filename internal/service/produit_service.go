package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"meubleerp/internal/dto"
	"meubleerp/internal/model"
	"meubleerp/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const produitCacheTTL = 4 * time.Hour

func produitCacheKey(id uuid.UUID) string { return "produit:" + id.String() }

// ProduitService defines the business logic contract for catalogue items.
type ProduitService interface {
	Creer(ctx context.Context, req dto.CreerProduitRequest) (*dto.ProduitResponse, error)
	ObtenirParID(ctx context.Context, id uuid.UUID) (*dto.ProduitResponse, error)
	Lister(ctx context.Context, filter dto.ProduitFilter) (*dto.ProduitListResponse, error)
	Modifier(ctx context.Context, id uuid.UUID, req dto.ModifierProduitRequest) (*dto.ProduitResponse, error)
	Supprimer(ctx context.Context, id uuid.UUID) error
}

type produitService struct {
	repo repository.ProduitRepository
	rdb  *redis.Client // nil disables the read cache
}

func NewProduitService(repo repository.ProduitRepository, rdb *redis.Client) ProduitService {
	return &produitService{repo: repo, rdb: rdb}
}

func (s *produitService) Creer(ctx context.Context, req dto.CreerProduitRequest) (*dto.ProduitResponse, error) {
	ref := strings.TrimSpace(req.Reference)
	if existing, err := s.repo.FindByReference(ctx, ref); err == nil && existing != nil {
		return nil, invalid("la référence %q existe déjà", ref)
	}

	p := &model.Produit{
		Reference:   ref,
		Designation: strings.TrimSpace(req.Designation),
		Description: req.Description,
		Categorie:   req.Categorie,
		PrixAchat:   req.PrixAchat.Round(2),
		PrixVente:   req.PrixVente.Round(2),
		Couleurs:    req.Couleurs,
		Stock:       req.Stock,
		Actif:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("création produit %s: %w", ref, err)
	}
	return produitToResponse(p), nil
}

// ObtenirParID reads through the Redis cache; cache errors fall back to the database.
func (s *produitService) ObtenirParID(ctx context.Context, id uuid.UUID) (*dto.ProduitResponse, error) {
	key := produitCacheKey(id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ProduitResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "produit "+id.String())
	}
	resp := produitToResponse(p)

	// best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.WithoutCancel(ctx), key, b, produitCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *produitService) Lister(ctx context.Context, filter dto.ProduitFilter) (*dto.ProduitListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produits, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProduitResponse, 0, len(produits))
	for i := range produits {
		data = append(data, *produitToResponse(&produits[i]))
	}
	return &dto.ProduitListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

func (s *produitService) Modifier(ctx context.Context, id uuid.UUID, req dto.ModifierProduitRequest) (*dto.ProduitResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "produit "+id.String())
	}
	if req.Designation != nil {
		p.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Categorie != nil {
		p.Categorie = *req.Categorie
	}
	if req.PrixAchat != nil {
		p.PrixAchat = req.PrixAchat.Round(2)
	}
	if req.PrixVente != nil {
		p.PrixVente = req.PrixVente.Round(2)
	}
	if req.Couleurs != nil {
		p.Couleurs = req.Couleurs
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Actif != nil {
		p.Actif = *req.Actif
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("mise à jour produit %s: %w", p.Reference, err)
	}
	s.invalidate(ctx, id)
	return produitToResponse(p), nil
}

func (s *produitService) Supprimer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err, "produit "+id.String())
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *produitService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.WithoutCancel(ctx), produitCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("produit_id", id.String()).Msg("produit: cache invalidation failed")
	}
}

func produitToResponse(p *model.Produit) *dto.ProduitResponse {
	couleurs := []string(p.Couleurs)
	if couleurs == nil {
		couleurs = []string{}
	}
	return &dto.ProduitResponse{
		ID:          p.ID.String(),
		Reference:   p.Reference,
		Designation: p.Designation,
		Description: p.Description,
		Categorie:   p.Categorie,
		PrixAchat:   p.PrixAchat,
		PrixVente:   p.PrixVente,
		Couleurs:    couleurs,
		Stock:       p.Stock,
		Actif:       p.Actif,
	}
}
