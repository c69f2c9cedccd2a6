package dto

import (
	"time"

	"meubleerp/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ArticleRequest is one submitted line. Totals are never read from the client.
type ArticleRequest struct {
	Quantite      *decimal.Decimal `json:"quantite"       validate:"required,gt=0"`
	Description   string           `json:"description"    validate:"required,max=500"`
	RefCouleur    *string          `json:"ref_couleur"    validate:"omitempty,max=40"`
	PrixUnitaire  *decimal.Decimal `json:"prix_unitaire"  validate:"required,min=0"`
	Remise        *decimal.Decimal `json:"remise"         validate:"omitempty,min=0,max=100"`
	TauxTVA       *decimal.Decimal `json:"taux_tva"       validate:"omitempty,min=0,max=100"`
	OptionChoisie *OptionRequest   `json:"option_choisie"`
}

type OptionRequest struct {
	Nom     string           `json:"nom"      validate:"required,max=120"`
	Prix    *decimal.Decimal `json:"prix"     validate:"required,min=0"`
	TauxTVA *decimal.Decimal `json:"taux_tva" validate:"omitempty,min=0,max=100"`
}

// DocumentRequest creates any of the four document kinds. Kind-specific
// fields are ignored by the other kinds.
type DocumentRequest struct {
	Date             *time.Time       `json:"date"`
	TypeClient       string           `json:"type_client"       validate:"required,oneof=particulier entreprise"`
	NomClient        string           `json:"nom_client"        validate:"required,max=200"`
	AdresseClient    string           `json:"adresse_client"    validate:"max=300"`
	TelephoneClient  string           `json:"telephone_client"  validate:"max=30"`
	EmailClient      *string          `json:"email_client"      validate:"omitempty,email"`
	RaisonSociale    *string          `json:"raison_sociale"    validate:"required_if=TypeClient entreprise,omitempty,max=200"`
	RegistreCommerce *string          `json:"registre_commerce" validate:"required_if=TypeClient entreprise,omitempty,max=40"`
	NumeroFiscal     *string          `json:"numero_fiscal"     validate:"omitempty,max=40"`
	Articles         []ArticleRequest `json:"articles"          validate:"required,min=1,dive"`
	TauxTVA          *decimal.Decimal `json:"taux_tva"          validate:"omitempty,min=0,max=100"`
	LogoPersonnalise *string          `json:"logo_personnalise"`
	Statut           *string          `json:"statut"`
	Notes            *string          `json:"notes"             validate:"omitempty,max=2000"`

	// devis
	ValiditeJours *int `json:"validite_jours" validate:"omitempty,min=1,max=365"`
	// facture, reçu
	DateEcheance *time.Time `json:"date_echeance"`
	ModePaiement *string    `json:"mode_paiement" validate:"omitempty,oneof=espece cheque virement carte"`
	// bon de livraison
	AdresseLivraison *string    `json:"adresse_livraison" validate:"omitempty,max=300"`
	DateLivraison    *time.Time `json:"date_livraison"`
	ReferenceDevis   *string    `json:"reference_devis"   validate:"omitempty,max=20"`
	// reçu
	MontantRecu      *decimal.Decimal `json:"montant_recu"      validate:"omitempty,min=0"`
	ReferenceFacture *string          `json:"reference_facture" validate:"omitempty,max=20"`
}

// DocumentPatch updates a stored document. Absent fields are left unchanged;
// totals are recomputed when articles or the client type change.
type DocumentPatch struct {
	Date             *time.Time       `json:"date"`
	TypeClient       *string          `json:"type_client"       validate:"omitempty,oneof=particulier entreprise"`
	NomClient        *string          `json:"nom_client"        validate:"omitempty,min=1,max=200"`
	AdresseClient    *string          `json:"adresse_client"    validate:"omitempty,max=300"`
	TelephoneClient  *string          `json:"telephone_client"  validate:"omitempty,max=30"`
	EmailClient      *string          `json:"email_client"      validate:"omitempty,email"`
	RaisonSociale    *string          `json:"raison_sociale"    validate:"omitempty,max=200"`
	RegistreCommerce *string          `json:"registre_commerce" validate:"omitempty,max=40"`
	NumeroFiscal     *string          `json:"numero_fiscal"     validate:"omitempty,max=40"`
	Articles         []ArticleRequest `json:"articles"          validate:"omitempty,min=1,dive"`
	TauxTVA          *decimal.Decimal `json:"taux_tva"          validate:"omitempty,min=0,max=100"`
	LogoPersonnalise *string          `json:"logo_personnalise"`
	Statut           *string          `json:"statut"`
	Notes            *string          `json:"notes"             validate:"omitempty,max=2000"`

	ValiditeJours    *int             `json:"validite_jours"    validate:"omitempty,min=1,max=365"`
	DateEcheance     *time.Time       `json:"date_echeance"`
	ModePaiement     *string          `json:"mode_paiement"     validate:"omitempty,oneof=espece cheque virement carte"`
	AdresseLivraison *string          `json:"adresse_livraison" validate:"omitempty,max=300"`
	DateLivraison    *time.Time       `json:"date_livraison"`
	ReferenceDevis   *string          `json:"reference_devis"   validate:"omitempty,max=20"`
	MontantRecu      *decimal.Decimal `json:"montant_recu"      validate:"omitempty,min=0"`
	ReferenceFacture *string          `json:"reference_facture" validate:"omitempty,max=20"`
}

// EnvoiRequest overrides the recipient of an e-mailed document.
type EnvoiRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DocumentResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	NumeroDocument   string          `json:"numero_document"`
	Date             string          `json:"date"`
	TypeClient       string          `json:"type_client"`
	NomClient        string          `json:"nom_client"`
	AdresseClient    string          `json:"adresse_client"`
	TelephoneClient  string          `json:"telephone_client"`
	EmailClient      *string         `json:"email_client"`
	RaisonSociale    *string         `json:"raison_sociale,omitempty"`
	RegistreCommerce *string         `json:"registre_commerce,omitempty"`
	NumeroFiscal     *string         `json:"numero_fiscal,omitempty"`
	Articles         []model.Article `json:"articles"`
	SousTotal        decimal.Decimal `json:"sous_total"`
	TotalRemise      decimal.Decimal `json:"total_remise"`
	TotalHT          decimal.Decimal `json:"total_ht"`
	TauxTVA          decimal.Decimal `json:"taux_tva"`
	MontantTVA       decimal.Decimal `json:"montant_tva"`
	TotalTTC         decimal.Decimal `json:"total_ttc"`
	MontantTotal     decimal.Decimal `json:"montant_total"`
	LogoPersonnalise *string         `json:"logo_personnalise"`
	Statut           string          `json:"statut"`
	Notes            *string         `json:"notes"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`

	ValiditeJours    *int             `json:"validite_jours,omitempty"`
	DateEcheance     *string          `json:"date_echeance,omitempty"`
	ModePaiement     *string          `json:"mode_paiement,omitempty"`
	AdresseLivraison *string          `json:"adresse_livraison,omitempty"`
	DateLivraison    *string          `json:"date_livraison,omitempty"`
	ReferenceDevis   *string          `json:"reference_devis,omitempty"`
	MontantRecu      *decimal.Decimal `json:"montant_recu,omitempty"`
	ReferenceFacture *string          `json:"reference_facture,omitempty"`
}

type EnvoiResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type LogoResponse struct {
	Filename string `json:"filename"`
}
