package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocumentKindRoutes(t *testing.T) {
	cases := map[DocumentKind][2]string{
		KindDevis:        {"devis", "devis"},
		KindFacture:      {"facture", "factures"},
		KindBonLivraison: {"bon-livraison", "bons-livraison"},
		KindRecuPaiement: {"recu-paiement", "recus-paiement"},
	}
	for kind, want := range cases {
		assert.Equal(t, want[0], kind.Slug(), kind)
		assert.Equal(t, want[1], kind.Pluriel(), kind)
		assert.True(t, kind.Valid(), kind)
	}
	assert.False(t, DocumentKind("avoir").Valid())
}

func TestClientVariant(t *testing.T) {
	rs := "SARL Bois & Design"
	base := DocumentBase{TypeClient: ClientEntreprise, NomClient: "Achats", RaisonSociale: &rs}

	ent, ok := base.Client().(Entreprise)
	assert.True(t, ok)
	assert.Equal(t, rs, ent.RaisonSociale)
	assert.Equal(t, "Achats", ent.Nom)

	base.TypeClient = ClientParticulier
	_, ok = base.Client().(Particulier)
	assert.True(t, ok)
}

func TestAUneRemise(t *testing.T) {
	base := DocumentBase{Articles: []Article{{Remise: decimal.Zero}}}
	assert.False(t, base.AUneRemise())
	base.Articles = append(base.Articles, Article{Remise: decimal.NewFromInt(5)})
	assert.True(t, base.AUneRemise())
}

func TestMontantSigne(t *testing.T) {
	tx := TransactionCaisse{Type: "sortie", Montant: decimal.NewFromInt(250)}
	assert.True(t, tx.MontantSigne().Equal(decimal.NewFromInt(-250)))
	tx.Type = "entree"
	assert.True(t, tx.MontantSigne().Equal(decimal.NewFromInt(250)))
}
