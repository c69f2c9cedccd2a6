package model

import "github.com/shopspring/decimal"

// RecuPaiement acknowledges a payment received from a client.
// ModePaiement: "espece" | "cheque" | "virement" | "carte"
// Statut: "valide" | "annule"
type RecuPaiement struct {
	DocumentBase
	ModePaiement     string          `gorm:"type:varchar(20);not null"`
	MontantRecu      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ReferenceFacture *string         `gorm:"type:varchar(20)"`
}

func (RecuPaiement) TableName() string      { return "recus_paiement" }
func (r *RecuPaiement) Base() *DocumentBase { return &r.DocumentBase }
func (r *RecuPaiement) Kind() DocumentKind  { return KindRecuPaiement }
