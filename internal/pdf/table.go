package pdf

import (
	"meubleerp/internal/model"
)

type columnKey int

const (
	keyDesignation columnKey = iota
	keyCouleur
	keyQuantite
	keyPrix
	keyRemise
	keyTVA
	keyTotal
)

// column is a table column. weight is its share of the table width before
// redistribution; the widths of the selected columns always sum to the page width.
type column struct {
	key    columnKey
	header string
	weight float64
	align  string
}

var (
	colDesignation = column{keyDesignation, "Désignation", 40, "L"}
	colCouleur     = column{keyCouleur, "Réf. couleur", 13, "C"}
	colQuantite    = column{keyQuantite, "Qté", 8, "C"}
	colPrix        = column{keyPrix, "P.U.", 15, "R"}
	colRemise      = column{keyRemise, "Remise", 9, "C"}
	colTVA         = column{keyTVA, "TVA", 8, "C"}
	colTotal       = column{keyTotal, "Total", 17, "R"}
)

const (
	lineH   = 4.6
	headerH = 7.0
)

func widths(cols []column, total float64) []float64 {
	sum := 0.0
	for _, c := range cols {
		sum += c.weight
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = total * c.weight / sum
	}
	return out
}

// row is one printed table row: an article or the option billed under it.
type row struct {
	cells  map[columnKey]string
	option bool
}

func articleRows(a model.Article, docTaux string) []row {
	couleur := ""
	if a.RefCouleur != nil {
		couleur = *a.RefCouleur
	}
	taux := docTaux
	if a.TauxTVA != nil {
		taux = Pourcentage(*a.TauxTVA)
	}
	remise := ""
	if !a.Remise.IsZero() {
		remise = Pourcentage(a.Remise)
	}
	rows := []row{{cells: map[columnKey]string{
		keyDesignation: a.Description,
		keyCouleur:     couleur,
		keyQuantite:    Quantite(a.Quantite),
		keyPrix:        Montant(a.PrixUnitaire, ""),
		keyRemise:      remise,
		keyTVA:         taux,
		keyTotal:       Montant(a.Total, ""),
	}}}

	if o := a.OptionChoisie; o != nil {
		tauxOption := taux
		if o.TauxTVA != nil {
			tauxOption = Pourcentage(*o.TauxTVA)
		}
		rows = append(rows, row{option: true, cells: map[columnKey]string{
			keyDesignation: "+ Option : " + o.Nom,
			keyQuantite:    Quantite(a.Quantite),
			keyPrix:        Montant(o.Prix, ""),
			keyTVA:         tauxOption,
			keyTotal:       Montant(a.Quantite.Mul(o.Prix).Round(2), ""),
		}})
	}
	return rows
}

// drawTable prints the line items. Long designations wrap; the header row is
// repeated after each page break.
func drawTable(p *page, base *model.DocumentBase, cols []column) {
	pdf := p.pdf
	ws := widths(cols, p.width)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8.5)
		pdf.SetFillColor(92, 58, 33)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range cols {
			pdf.CellFormat(ws[i], headerH, p.tr(c.header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	docTaux := Pourcentage(base.TauxTVA)
	for _, a := range base.Articles {
		for _, r := range articleRows(a, docTaux) {
			style := ""
			if r.option {
				style = "I"
			}
			pdf.SetFont("Helvetica", style, 8.5)

			var desc []string
			for i, c := range cols {
				if c.key == keyDesignation {
					desc = pdf.SplitText(p.tr(r.cells[keyDesignation]), ws[i]-2)
				}
			}
			if len(desc) == 0 {
				desc = []string{""}
			}
			h := float64(len(desc))*lineH + 1.4

			if ensureSpace(p, h) {
				header()
				pdf.SetFont("Helvetica", style, 8.5)
			}

			x, y := marginX, pdf.GetY()
			for i, c := range cols {
				pdf.Rect(x, y, ws[i], h, "D")
				if c.key == keyDesignation {
					for j, line := range desc {
						pdf.SetXY(x, y+0.7+float64(j)*lineH)
						pdf.CellFormat(ws[i], lineH, line, "", 0, c.align, false, 0, "")
					}
				} else {
					pdf.SetXY(x, y)
					pdf.CellFormat(ws[i], h, p.tr(r.cells[c.key]), "", 0, c.align, false, 0, "")
				}
				x += ws[i]
			}
			pdf.SetXY(marginX, y+h)
		}
	}
	pdf.Ln(4)
}
