package model

import "time"

// Facture is an invoice. TVA always applies, whatever the client type.
// Statut: "non_payee" | "partiellement_payee" | "payee" | "annulee"
type Facture struct {
	DocumentBase
	DateEcheance *time.Time
	ModePaiement *string `gorm:"type:varchar(20)"`
}

func (Facture) TableName() string      { return "factures" }
func (f *Facture) Base() *DocumentBase { return &f.DocumentBase }
func (f *Facture) Kind() DocumentKind  { return KindFacture }
