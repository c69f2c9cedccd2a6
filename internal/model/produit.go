package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Produit is a catalogue item (sofa, table, wardrobe…).
// Couleurs lists the colour references the item is available in.
type Produit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference   string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	Designation string    `gorm:"index;not null"`
	Description *string
	Categorie   string          `gorm:"not null"`
	PrixAchat   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrixVente   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Couleurs    datatypes.JSONSlice[string]
	Stock       int  `gorm:"not null;default:0"`
	Actif       bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Produit) TableName() string { return "produits" }

func (p *Produit) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
