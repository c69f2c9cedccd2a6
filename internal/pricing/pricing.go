// Package pricing derives line totals, HT/TVA/TTC aggregates and tax-rate groups
// for numbered documents. Nothing here trusts amounts submitted by a client.
package pricing

import (
	"errors"
	"sort"

	"meubleerp/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultTauxTVA is the standard Algerian VAT rate, in percent.
var DefaultTauxTVA = decimal.NewFromInt(19)

// ErrAucunArticle is returned when a document is submitted without lines.
var ErrAucunArticle = errors.New("le document doit contenir au moins un article")

var cent = decimal.NewFromInt(100)

// Totaux are the derived amounts stored on every document.
type Totaux struct {
	SousTotal    decimal.Decimal
	TotalRemise  decimal.Decimal
	TotalHT      decimal.Decimal
	TauxTVA      decimal.Decimal
	MontantTVA   decimal.Decimal
	TotalTTC     decimal.Decimal
	MontantTotal decimal.Decimal
}

// GroupeTVA is the taxable base and tax amount for one effective rate.
type GroupeTVA struct {
	Taux    decimal.Decimal
	Base    decimal.Decimal
	Montant decimal.Decimal
}

// TotalLigne returns quantite × prix × (1 − remise/100), unrounded.
func TotalLigne(a model.Article) decimal.Decimal {
	brut := a.Quantite.Mul(a.PrixUnitaire)
	return brut.Sub(remiseLigne(a))
}

func remiseLigne(a model.Article) decimal.Decimal {
	return a.Quantite.Mul(a.PrixUnitaire).Mul(a.Remise).Div(cent)
}

// totalOption is the option sub-line: billed once per unit, never discounted.
func totalOption(a model.Article) decimal.Decimal {
	if a.OptionChoisie == nil {
		return decimal.Zero
	}
	return a.Quantite.Mul(a.OptionChoisie.Prix)
}

// Calculer recomputes every line total and the document aggregates.
// taux is the document rate in percent; it only applies when policy is taxable.
// The returned slice is a copy; the input is not modified.
func Calculer(articles []model.Article, taux decimal.Decimal, policy Policy) ([]model.Article, Totaux, error) {
	if len(articles) == 0 {
		return nil, Totaux{}, ErrAucunArticle
	}

	lignes := make([]model.Article, len(articles))
	sousTotal := decimal.Zero
	remise := decimal.Zero
	for i, a := range articles {
		lignes[i] = a
		lignes[i].Total = TotalLigne(a).Round(2)
		sousTotal = sousTotal.Add(a.Quantite.Mul(a.PrixUnitaire)).Add(totalOption(a))
		remise = remise.Add(remiseLigne(a))
	}

	t := Totaux{
		SousTotal:   sousTotal.Round(2),
		TotalRemise: remise.Round(2),
	}
	t.TotalHT = t.SousTotal.Sub(t.TotalRemise)

	if policy.Taxable() {
		t.TauxTVA = taux
		for _, g := range GroupesTVA(lignes, taux) {
			t.MontantTVA = t.MontantTVA.Add(g.Montant)
		}
	}
	t.TotalTTC = t.TotalHT.Add(t.MontantTVA)
	t.MontantTotal = policy.MontantTotal(t)
	return lignes, t, nil
}

// GroupesTVA sums lines and options by effective rate, ascending.
// A line without its own rate uses taux; an option without one uses its line's rate.
func GroupesTVA(articles []model.Article, taux decimal.Decimal) []GroupeTVA {
	bases := make(map[string]*GroupeTVA)
	add := func(rate, base decimal.Decimal) {
		key := rate.String()
		g, ok := bases[key]
		if !ok {
			g = &GroupeTVA{Taux: rate}
			bases[key] = g
		}
		g.Base = g.Base.Add(base)
	}

	for _, a := range articles {
		tauxLigne := taux
		if a.TauxTVA != nil {
			tauxLigne = *a.TauxTVA
		}
		add(tauxLigne, TotalLigne(a))

		if a.OptionChoisie != nil {
			tauxOption := tauxLigne
			if a.OptionChoisie.TauxTVA != nil {
				tauxOption = *a.OptionChoisie.TauxTVA
			}
			add(tauxOption, totalOption(a))
		}
	}

	groupes := make([]GroupeTVA, 0, len(bases))
	for _, g := range bases {
		g.Base = g.Base.Round(2)
		g.Montant = g.Base.Mul(g.Taux).Div(cent).Round(2)
		groupes = append(groupes, *g)
	}
	sort.Slice(groupes, func(i, j int) bool { return groupes[i].Taux.LessThan(groupes[j].Taux) })
	return groupes
}

// GroupesDocument returns the tax groups behind a stored document's MontantTVA,
// from its stored lines and rate. Untaxed documents have none.
func GroupesDocument(doc model.Document) []GroupeTVA {
	base := doc.Base()
	if !PolicyFor(doc.Kind(), base.Client()).Taxable() {
		return nil
	}
	return GroupesTVA(base.Articles, base.TauxTVA)
}

// Appliquer recomputes lines and totals in place on doc.
func Appliquer(doc model.Document, taux decimal.Decimal) error {
	base := doc.Base()
	lignes, t, err := Calculer(base.Articles, taux, PolicyFor(doc.Kind(), base.Client()))
	if err != nil {
		return err
	}
	base.Articles = lignes
	base.SousTotal = t.SousTotal
	base.TotalRemise = t.TotalRemise
	base.TotalHT = t.TotalHT
	base.TauxTVA = t.TauxTVA
	base.MontantTVA = t.MontantTVA
	base.TotalTTC = t.TotalTTC
	base.MontantTotal = t.MontantTotal
	return nil
}
