package model

import "github.com/shopspring/decimal"

// Article is one line of a document, stored inside the document's JSON column.
// Remise is a percentage in [0,100]. Total is derived, never taken from the client.
type Article struct {
	Quantite      decimal.Decimal  `json:"quantite"`
	Description   string           `json:"description"`
	RefCouleur    *string          `json:"ref_couleur,omitempty"`
	PrixUnitaire  decimal.Decimal  `json:"prix_unitaire"`
	Remise        decimal.Decimal  `json:"remise"`
	TauxTVA       *decimal.Decimal `json:"taux_tva,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	OptionChoisie *OptionArticle   `json:"option_choisie,omitempty"`
}

// OptionArticle is a priced option selected for a line (e.g. fabric upgrade).
// A nil TauxTVA inherits the parent line's rate.
type OptionArticle struct {
	Nom     string           `json:"nom"`
	Prix    decimal.Decimal  `json:"prix"`
	TauxTVA *decimal.Decimal `json:"taux_tva,omitempty"`
}
