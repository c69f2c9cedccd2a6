package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TransactionCaisseRequest struct {
	Type         string          `json:"type"          validate:"required,oneof=entree sortie"`
	ModePaiement string          `json:"mode_paiement" validate:"required,oneof=espece cheque virement carte"`
	Montant      decimal.Decimal `json:"montant"       validate:"required,gt=0"`
	Description  string          `json:"description"   validate:"required,min=3,max=300"`
	Reference    *string         `json:"reference"     validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionCaisseResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	ModePaiement string          `json:"mode_paiement"`
	Montant      decimal.Decimal `json:"montant"`
	MontantSigne decimal.Decimal `json:"montant_signe"`
	Description  string          `json:"description"`
	Reference    *string         `json:"reference"`
	CreatedAt    string          `json:"created_at"`
}

// SoldeCaisseResponse is the register balance per payment method.
type SoldeCaisseResponse struct {
	ParMode map[string]decimal.Decimal `json:"par_mode"`
	Total   decimal.Decimal            `json:"total"`
}
