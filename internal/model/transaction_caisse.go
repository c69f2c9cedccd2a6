package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionCaisse is an entry in the cash register ledger.
// Type: "entree" | "sortie". Montant is always positive; the sign comes from Type.
// ModePaiement: "espece" | "cheque" | "virement" | "carte"
type TransactionCaisse struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type         string          `gorm:"type:varchar(10);not null;index"`
	ModePaiement string          `gorm:"type:varchar(20);not null"`
	Montant      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description  string          `gorm:"not null"`
	// Reference links the entry to a document number (reçu, facture) when there is one
	Reference *string `gorm:"type:varchar(20)"`
	CreatedAt time.Time
}

func (TransactionCaisse) TableName() string { return "transactions_caisse" }

func (t *TransactionCaisse) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MontantSigne returns Montant negated for "sortie" entries.
func (t *TransactionCaisse) MontantSigne() decimal.Decimal {
	if t.Type == "sortie" {
		return t.Montant.Neg()
	}
	return t.Montant
}
