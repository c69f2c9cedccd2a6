package pdf

import (
	"fmt"

	"meubleerp/internal/model"
	"meubleerp/internal/pricing"
)

type totalLine struct {
	label, value string
	bold         bool
}

// totalsLines lists the rows of the totals box. Taxed documents show one TVA
// row per effective rate, at the stored rate; untaxed ones end on the HT amount.
func totalsLines(doc model.Document, devise string) []totalLine {
	base := doc.Base()

	var lines []totalLine
	if !base.TotalRemise.IsZero() {
		lines = append(lines,
			totalLine{"Sous-total", Montant(base.SousTotal, devise), false},
			totalLine{"Remise", "- " + Montant(base.TotalRemise, devise), false},
		)
	}
	lines = append(lines, totalLine{"Total HT", Montant(base.TotalHT, devise), false})

	if pricing.PolicyFor(doc.Kind(), base.Client()).Taxable() {
		for _, g := range pricing.GroupesDocument(doc) {
			label := fmt.Sprintf("TVA %s sur %s", Pourcentage(g.Taux), Montant(g.Base, ""))
			lines = append(lines, totalLine{label, Montant(g.Montant, devise), false})
		}
		lines = append(lines, totalLine{"Total TTC", Montant(base.TotalTTC, devise), true})
	} else {
		lines = append(lines, totalLine{"Net à payer", Montant(base.MontantTotal, devise), true})
	}
	return lines
}

// drawTotals prints the right-aligned totals box.
func drawTotals(p *page, doc model.Document) {
	pdf := p.pdf
	lines := totalsLines(doc, p.devise)

	const rowH = 6.0
	labelW, valueW := 52.0, 36.0
	x := marginX + p.width - labelW - valueW

	ensureSpace(p, float64(len(lines))*rowH+2)
	for _, l := range lines {
		style := ""
		if l.bold {
			style = "B"
			pdf.SetFillColor(248, 244, 238)
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.SetX(x)
		pdf.CellFormat(labelW, rowH, p.tr(l.label), "1", 0, "L", l.bold, 0, "")
		pdf.CellFormat(valueW, rowH, p.tr(l.value), "1", 1, "R", l.bold, 0, "")
	}
	pdf.Ln(2)
}
