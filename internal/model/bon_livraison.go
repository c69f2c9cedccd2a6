package model

import "time"

// BonLivraison is a delivery note.
// Statut: "en_preparation" | "expedie" | "livre" | "annule"
type BonLivraison struct {
	DocumentBase
	AdresseLivraison *string
	DateLivraison    *time.Time
	ReferenceDevis   *string `gorm:"type:varchar(20)"`
}

func (BonLivraison) TableName() string      { return "bons_livraison" }
func (b *BonLivraison) Base() *DocumentBase { return &b.DocumentBase }
func (b *BonLivraison) Kind() DocumentKind  { return KindBonLivraison }
