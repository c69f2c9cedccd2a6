package model

// Devis is a price quote.
// Statut: "brouillon" | "envoye" | "accepte" | "refuse"
type Devis struct {
	DocumentBase
	ValiditeJours int `gorm:"not null;default:30"`
}

func (Devis) TableName() string      { return "devis" }
func (d *Devis) Base() *DocumentBase { return &d.DocumentBase }
func (d *Devis) Kind() DocumentKind  { return KindDevis }
