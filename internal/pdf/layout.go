package pdf

import (
	"fmt"

	"meubleerp/internal/model"
)

// layout is the client-dependent part of a document: the client block and
// the table columns. Everything else is shared.
type layout interface {
	drawClient(p *page, base *model.DocumentBase)
	columns(kind model.DocumentKind, remise bool) []column
}

func layoutFor(c model.Client) layout {
	switch c := c.(type) {
	case model.Entreprise:
		return entrepriseLayout{client: c}
	case model.Particulier:
		return particulierLayout{client: c}
	default:
		panic(fmt.Sprintf("pdf: variante client inconnue %T", c))
	}
}

type entrepriseLayout struct{ client model.Entreprise }

func (l entrepriseLayout) drawClient(p *page, _ *model.DocumentBase) {
	c := l.client
	lines := []string{
		c.Nom,
		c.Adresse,
		prefixed("Tél : ", c.Telephone),
		prefixed("RC : ", c.RegistreCommerce),
		prefixed("NIF : ", c.NumeroFiscal),
	}
	nom := c.RaisonSociale
	if nom == "" {
		nom = c.Nom
		lines[0] = ""
	}
	drawClientBox(p, "Client (entreprise)", nom, lines)
}

func (l entrepriseLayout) columns(kind model.DocumentKind, remise bool) []column {
	cols := []column{colDesignation, colCouleur, colQuantite, colPrix, colRemise, colTVA, colTotal}
	return selectColumns(cols, kind, remise)
}

type particulierLayout struct{ client model.Particulier }

func (l particulierLayout) drawClient(p *page, _ *model.DocumentBase) {
	c := l.client
	drawClientBox(p, "Client", c.Nom, []string{
		c.Adresse,
		prefixed("Tél : ", c.Telephone),
		prefixed("Email : ", c.Email),
	})
}

func (l particulierLayout) columns(kind model.DocumentKind, remise bool) []column {
	cols := []column{colDesignation, colCouleur, colQuantite, colPrix, colRemise, colTotal}
	return selectColumns(cols, kind, remise)
}

// selectColumns applies the kind-level rules: delivery notes carry no tax
// column, receipts no colour reference, and the discount column only shows
// when some line is discounted.
func selectColumns(cols []column, kind model.DocumentKind, remise bool) []column {
	out := cols[:0:0]
	for _, c := range cols {
		switch {
		case c.key == keyTVA && kind == model.KindBonLivraison:
		case c.key == keyCouleur && kind == model.KindRecuPaiement:
		case c.key == keyRemise && !remise:
		default:
			out = append(out, c)
		}
	}
	return out
}

func drawClientBox(p *page, label, nom string, lines []string) {
	pdf := p.pdf
	boxW := p.width * 0.55
	x := marginX + p.width - boxW
	y := pdf.GetY()

	kept := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			kept = append(kept, l)
		}
	}
	h := 6 + 5.5 + float64(len(kept))*4.2 + 2

	pdf.SetFillColor(248, 244, 238)
	pdf.Rect(x, y, boxW, h, "DF")

	pdf.SetXY(x+3, y+1.5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(92, 58, 33)
	pdf.CellFormat(boxW-6, 4.5, p.tr(label), "", 2, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(boxW-6, 5.5, p.tr(nom), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8.5)
	for _, l := range kept {
		pdf.CellFormat(boxW-6, 4.2, p.tr(l), "", 2, "L", false, 0, "")
	}
	pdf.SetY(y + h + 5)
}

func drawTitle(p *page, doc model.Document) {
	pdf := p.pdf
	base := doc.Base()

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(p.width, 8, p.tr(fmt.Sprintf("%s N° %s", doc.Kind().Titre(), base.NumeroDocument)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(p.width, 5, p.tr("Date : "+DateFR(base.Date)), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

// drawDetails prints the kind-specific header fields above the table.
func drawDetails(p *page, doc model.Document) {
	var lines []string
	switch d := doc.(type) {
	case *model.Devis:
		lines = append(lines, fmt.Sprintf("Validité de l'offre : %d jours", d.ValiditeJours))
	case *model.Facture:
		if d.DateEcheance != nil {
			lines = append(lines, "Échéance : "+DateFR(*d.DateEcheance))
		}
		if d.ModePaiement != nil {
			lines = append(lines, "Mode de paiement : "+*d.ModePaiement)
		}
	case *model.BonLivraison:
		if d.DateLivraison != nil {
			lines = append(lines, "Date de livraison : "+DateFR(*d.DateLivraison))
		}
		if d.ReferenceDevis != nil {
			lines = append(lines, "Réf. devis : "+*d.ReferenceDevis)
		}
	}
	if len(lines) == 0 {
		return
	}
	p.pdf.SetFont("Helvetica", "", 8.5)
	for _, l := range lines {
		p.pdf.CellFormat(p.width, 4.5, p.tr(l), "", 1, "L", false, 0, "")
	}
	p.pdf.Ln(2)
}

// drawKindBlock prints what follows the totals: the payment summary on a
// receipt, the delivery address and signatures on a delivery note.
func drawKindBlock(p *page, doc model.Document) {
	pdf := p.pdf
	switch d := doc.(type) {
	case *model.RecuPaiement:
		rows := [][2]string{
			{"Montant reçu", Montant(d.MontantRecu, p.devise)},
			{"Mode de paiement", d.ModePaiement},
		}
		if d.ReferenceFacture != nil {
			rows = append(rows, [2]string{"Réf. facture", *d.ReferenceFacture})
		}
		ensureSpace(p, float64(len(rows))*6+4)
		pdf.Ln(2)
		for _, r := range rows {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(45, 6, p.tr(r[0]+" :"), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(p.width-45, 6, p.tr(r[1]), "", 1, "L", false, 0, "")
		}
	case *model.BonLivraison:
		adresse := d.AdresseClient
		if d.AdresseLivraison != nil && *d.AdresseLivraison != "" {
			adresse = *d.AdresseLivraison
		}
		ensureSpace(p, 40)
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(45, 6, p.tr("Adresse de livraison :"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(p.width-45, 6, p.tr(adresse), "", "L", false)
		pdf.Ln(6)

		half := p.width / 2
		pdf.SetFont("Helvetica", "I", 8.5)
		pdf.CellFormat(half, 5, p.tr("Signature du livreur"), "", 0, "C", false, 0, "")
		pdf.CellFormat(half, 5, p.tr("Signature du client"), "", 1, "C", false, 0, "")
		y := pdf.GetY()
		pdf.Rect(marginX+8, y+1, half-16, 18, "D")
		pdf.Rect(marginX+half+8, y+1, half-16, 18, "D")
		pdf.SetY(y + 21)
	}
}

func drawNotes(p *page, base *model.DocumentBase) {
	if base.Notes == nil || *base.Notes == "" {
		return
	}
	pdf := p.pdf
	lines := pdf.SplitText(p.tr(*base.Notes), p.width)
	ensureSpace(p, float64(len(lines))*4.5+8)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.CellFormat(p.width, 5, "Notes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8.5)
	for _, l := range lines {
		pdf.CellFormat(p.width, 4.5, l, "", 1, "L", false, 0, "")
	}
}

// ensureSpace starts a new page when fewer than h millimetres remain above the footer.
func ensureSpace(p *page, h float64) bool {
	if p.pdf.GetY()+h <= p.bottom {
		return false
	}
	p.pdf.AddPage()
	p.pdf.SetY(marginTop)
	return true
}
