package pricing

import (
	"meubleerp/internal/model"

	"github.com/shopspring/decimal"
)

// Policy decides whether TVA applies and which amount is due.
// The two implementations are unexported; obtain one with PolicyFor.
type Policy interface {
	Taxable() bool
	MontantTotal(t Totaux) decimal.Decimal
	isPolicy()
}

type avecTVA struct{}

func (avecTVA) Taxable() bool                         { return true }
func (avecTVA) MontantTotal(t Totaux) decimal.Decimal { return t.TotalTTC }
func (avecTVA) isPolicy()                             {}

type horsTVA struct{}

func (horsTVA) Taxable() bool                         { return false }
func (horsTVA) MontantTotal(t Totaux) decimal.Decimal { return t.TotalHT }
func (horsTVA) isPolicy()                             {}

// PolicyFor returns the tax policy for a document kind and client.
// Invoices and receipts are always taxed; quotes and delivery notes only for businesses.
func PolicyFor(kind model.DocumentKind, client model.Client) Policy {
	switch kind {
	case model.KindFacture, model.KindRecuPaiement:
		return avecTVA{}
	}
	switch client.(type) {
	case model.Entreprise:
		return avecTVA{}
	default:
		return horsTVA{}
	}
}
