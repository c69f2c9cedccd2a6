package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentKind identifies one of the four numbered business documents.
type DocumentKind string

const (
	KindDevis        DocumentKind = "devis"
	KindFacture      DocumentKind = "facture"
	KindBonLivraison DocumentKind = "bon_livraison"
	KindRecuPaiement DocumentKind = "recu_paiement"
)

// Titre is the heading printed on the rendered document.
func (k DocumentKind) Titre() string {
	switch k {
	case KindDevis:
		return "DEVIS"
	case KindFacture:
		return "FACTURE"
	case KindBonLivraison:
		return "BON DE LIVRAISON"
	case KindRecuPaiement:
		return "REÇU DE PAIEMENT"
	default:
		return string(k)
	}
}

// Slug is the URL segment for the kind: /create-<slug>, /<slug>-pdf/:id …
func (k DocumentKind) Slug() string {
	return strings.ReplaceAll(string(k), "_", "-")
}

// Pluriel is the URL segment of the list route: /get-<pluriel>.
func (k DocumentKind) Pluriel() string {
	switch k {
	case KindDevis:
		return "devis"
	case KindFacture:
		return "factures"
	case KindBonLivraison:
		return "bons-livraison"
	case KindRecuPaiement:
		return "recus-paiement"
	default:
		return k.Slug()
	}
}

// Kinds lists every document kind.
var Kinds = []DocumentKind{KindDevis, KindFacture, KindBonLivraison, KindRecuPaiement}

// Valid reports whether k is one of Kinds.
func (k DocumentKind) Valid() bool { return slices.Contains(Kinds, k) }

// ClientType is the persisted discriminator of the Client variant.
// Values: "particulier" | "entreprise"
type ClientType string

const (
	ClientParticulier ClientType = "particulier"
	ClientEntreprise  ClientType = "entreprise"
)

// Document is implemented by Devis, Facture, BonLivraison and RecuPaiement.
type Document interface {
	Base() *DocumentBase
	Kind() DocumentKind
}

// DocumentBase holds the columns shared by every numbered document.
// Derived amounts (SousTotal … MontantTotal) are written by the pricing engine only.
type DocumentBase struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	NumeroDocument string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Date           time.Time `gorm:"not null"`

	TypeClient       ClientType `gorm:"type:varchar(20);not null"`
	NomClient        string     `gorm:"not null"`
	AdresseClient    string
	TelephoneClient  string
	EmailClient      *string
	RaisonSociale    *string
	RegistreCommerce *string
	NumeroFiscal     *string

	Articles datatypes.JSONSlice[Article]

	SousTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalRemise  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalHT      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TauxTVA      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MontantTVA   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalTTC     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	MontantTotal decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	LogoPersonnalise *string
	Statut           string `gorm:"type:varchar(30);not null"`
	Notes            *string
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

// BeforeCreate assigns the primary key client-side so both Postgres and SQLite work.
func (d *DocumentBase) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Client returns the typed client variant for this document.
func (d *DocumentBase) Client() Client {
	p := Particulier{Nom: d.NomClient, Adresse: d.AdresseClient, Telephone: d.TelephoneClient}
	if d.EmailClient != nil {
		p.Email = *d.EmailClient
	}
	if d.TypeClient != ClientEntreprise {
		return p
	}
	return Entreprise{
		Particulier:      p,
		RaisonSociale:    deref(d.RaisonSociale),
		RegistreCommerce: deref(d.RegistreCommerce),
		NumeroFiscal:     deref(d.NumeroFiscal),
	}
}

// AUneRemise reports whether any line carries a non-zero discount.
func (d *DocumentBase) AUneRemise() bool {
	for _, a := range d.Articles {
		if !a.Remise.IsZero() {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
