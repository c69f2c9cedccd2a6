package model

import "time"

// Compteur is the per-document-type sequence counter.
// Valeur is the next number to hand out, stored as text. One row per Type, never deleted.
type Compteur struct {
	Type              DocumentKind `gorm:"type:varchar(30);primaryKey"`
	Valeur            string       `gorm:"type:varchar(20);not null"`
	DerniereMiseAJour time.Time    `gorm:"not null"`
}

func (Compteur) TableName() string { return "compteurs" }
