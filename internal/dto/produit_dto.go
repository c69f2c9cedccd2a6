package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerProduitRequest struct {
	Reference   string          `json:"reference"   validate:"required,min=2,max=40"`
	Designation string          `json:"designation" validate:"required,min=2,max=200"`
	Description *string         `json:"description"`
	Categorie   string          `json:"categorie"   validate:"required,max=80"`
	PrixAchat   decimal.Decimal `json:"prix_achat"  validate:"min=0"`
	PrixVente   decimal.Decimal `json:"prix_vente"  validate:"required,gt=0"`
	Couleurs    []string        `json:"couleurs"    validate:"omitempty,dive,required,max=40"`
	Stock       int             `json:"stock"       validate:"min=0"`
}

type ModifierProduitRequest struct {
	Designation *string          `json:"designation" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description"`
	Categorie   *string          `json:"categorie"   validate:"omitempty,max=80"`
	PrixAchat   *decimal.Decimal `json:"prix_achat"  validate:"omitempty,min=0"`
	PrixVente   *decimal.Decimal `json:"prix_vente"  validate:"omitempty,gt=0"`
	Couleurs    []string         `json:"couleurs"    validate:"omitempty,dive,required,max=40"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	Actif       *bool            `json:"actif"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProduitFilter struct {
	Designation string `form:"designation"`
	Categorie   string `form:"categorie"`
	Actif       string `form:"actif"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProduitResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Designation string          `json:"designation"`
	Description *string         `json:"description"`
	Categorie   string          `json:"categorie"`
	PrixAchat   decimal.Decimal `json:"prix_achat"`
	PrixVente   decimal.Decimal `json:"prix_vente"`
	Couleurs    []string        `json:"couleurs"`
	Stock       int             `json:"stock"`
	Actif       bool            `json:"actif"`
}

type ProduitListResponse struct {
	Data       []ProduitResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
