// Package pdf renders numbered documents (devis, facture, bon de livraison,
// reçu de paiement) to A4 PDFs with go-pdf/fpdf.
//
// Output is byte-for-byte reproducible: the PDF metadata dates are pinned to
// the document date and catalog entries are emitted in sorted order.
package pdf

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"meubleerp/internal/model"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
)

//go:embed assets/default_logo.png
var defaultLogo []byte

const (
	marginX      = 12.0
	marginTop    = 10.0
	footerHeight = 24.0
	logoWidth    = 38.0
	qrSize       = 24.0
	qrPixels     = 240
)

// Identite is the company identity printed in the header and footer.
type Identite struct {
	Nom              string
	Activite         string
	Adresse          string
	Telephone        string
	Email            string
	RegistreCommerce string
	NumeroFiscal     string
	ArticleImpot     string
	Banque           string
	RIB              string
}

// Options controls presentation details that do not depend on the document.
type Options struct {
	Devise  string // currency label, e.g. "DA"
	LogoDir string // directory holding uploaded custom logos
	QRCode  bool   // print a QR code summarising the document
}

// Renderer is safe for concurrent use; it holds no per-document state.
type Renderer struct {
	identite Identite
	opts     Options
}

func NewRenderer(identite Identite, opts Options) *Renderer {
	if opts.Devise == "" {
		opts.Devise = "DA"
	}
	return &Renderer{identite: identite, opts: opts}
}

// page bundles the fpdf document with the helpers every drawing step needs.
type page struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	devise string
	width  float64 // printable width between margins
	bottom float64 // y limit before the footer
}

// Render writes doc as a PDF to w. A missing or unreadable custom logo falls
// back to the built-in one.
func (r *Renderer) Render(doc model.Document, w io.Writer) error {
	base := doc.Base()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(base.Date)
	pdf.SetModificationDate(base.Date)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(marginX, marginTop, marginX)
	pdf.SetAutoPageBreak(false, footerHeight)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s %s", doc.Kind().Titre(), base.NumeroDocument), true)
	pdf.SetAuthor(r.identite.Nom, true)
	pdf.SetCreator("meubleerp", false)

	pageW, pageH := pdf.GetPageSize()
	p := &page{
		pdf:    pdf,
		tr:     tr,
		devise: r.opts.Devise,
		width:  pageW - 2*marginX,
		bottom: pageH - footerHeight,
	}

	pdf.SetFooterFunc(func() { r.drawFooter(p) })
	pdf.AddPage()

	r.registerLogo(pdf, base)
	r.drawHeader(p, doc)

	lay := layoutFor(base.Client())
	lay.drawClient(p, base)
	drawTitle(p, doc)
	drawDetails(p, doc)

	drawTable(p, base, lay.columns(doc.Kind(), base.AUneRemise()))
	drawTotals(p, doc)
	drawKindBlock(p, doc)
	drawNotes(p, base)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: rendu %s %s: %w", doc.Kind(), base.NumeroDocument, err)
	}
	return nil
}

// RenderBytes is Render into memory.
func (r *Renderer) RenderBytes(doc model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const logoKey = "logo"

// registerLogo registers the document's custom logo under logoKey, or the
// default one when the custom file is absent or not a PNG/JPEG image.
func (r *Renderer) registerLogo(pdf *fpdf.Fpdf, base *model.DocumentBase) {
	data, imgType := defaultLogo, "PNG"
	if base.LogoPersonnalise != nil && *base.LogoPersonnalise != "" && r.opts.LogoDir != "" {
		if custom, t, ok := r.readLogo(*base.LogoPersonnalise); ok {
			data, imgType = custom, t
		}
	}
	pdf.RegisterImageOptionsReader(logoKey, fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
}

func (r *Renderer) readLogo(name string) ([]byte, string, bool) {
	path := filepath.Join(r.opts.LogoDir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false
	}
	switch mimetype.Detect(data).String() {
	case "image/png":
		return data, "PNG", true
	case "image/jpeg":
		return data, "JPG", true
	default:
		return nil, "", false
	}
}

func (r *Renderer) drawHeader(p *page, doc model.Document) {
	pdf := p.pdf

	pdf.ImageOptions(logoKey, marginX, marginTop, logoWidth, 0, false, fpdf.ImageOptions{}, 0, "")

	x := marginX + logoWidth + 6
	w := p.width - logoWidth - 6
	if r.opts.QRCode {
		w -= qrSize + 4
		img, err := qrImage(qrSummary(doc, p.devise))
		if err != nil {
			pdf.SetError(err)
		} else {
			pdf.RegisterImageOptionsReader(qrKey, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
			pdf.ImageOptions(qrKey, marginX+p.width-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{}, 0, "")
		}
	}

	pdf.SetXY(x, marginTop)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(w, 7, p.tr(r.identite.Nom), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8.5)
	for _, line := range []string{r.identite.Activite, r.identite.Adresse, joinNonEmpty("  ", prefixed("Tél : ", r.identite.Telephone), prefixed("Email : ", r.identite.Email))} {
		if line != "" {
			pdf.CellFormat(w, 4.2, p.tr(line), "", 2, "L", false, 0, "")
		}
	}
	pdf.SetY(marginTop + 28)
	pdf.SetDrawColor(92, 58, 33)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginX, pdf.GetY(), marginX+p.width, pdf.GetY())
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(4)
}

func (r *Renderer) drawFooter(p *page) {
	pdf := p.pdf
	id := r.identite
	_, pageH := pdf.GetPageSize()

	pdf.SetY(pageH - footerHeight + 4)
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(marginX, pdf.GetY(), marginX+p.width, pdf.GetY())
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(1.5)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(90, 90, 90)
	legal := joinNonEmpty("  |  ", id.Nom, prefixed("RC : ", id.RegistreCommerce), prefixed("NIF : ", id.NumeroFiscal), prefixed("AI : ", id.ArticleImpot))
	bank := joinNonEmpty("  |  ", prefixed("Banque : ", id.Banque), prefixed("RIB : ", id.RIB))
	pdf.CellFormat(p.width, 3.6, p.tr(legal), "", 2, "C", false, 0, "")
	if bank != "" {
		pdf.CellFormat(p.width, 3.6, p.tr(bank), "", 2, "C", false, 0, "")
	}
	pdf.CellFormat(p.width, 3.6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 2, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

const qrKey = "qr"

// qrImage encodes text as a PNG QR code. The image lives on the document's own
// fpdf instance, so nothing is kept between renders.
func qrImage(text string) ([]byte, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("pdf: qr: %w", err)
	}
	scaled, err := barcode.Scale(code, qrPixels, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("pdf: qr: %w", err)
	}
	// fpdf only reads 8-bit PNGs; the QR image is 16-bit gray.
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("pdf: qr: %w", err)
	}
	return buf.Bytes(), nil
}

// qrSummary is the human-readable text encoded in the QR code.
func qrSummary(doc model.Document, devise string) string {
	base := doc.Base()
	return strings.Join([]string{
		fmt.Sprintf("%s N° %s", doc.Kind().Titre(), base.NumeroDocument),
		"Date : " + DateFR(base.Date),
		"Client : " + clientLabel(base),
		"Total : " + Montant(base.MontantTotal, devise),
	}, "\n")
}

func clientLabel(base *model.DocumentBase) string {
	if e, ok := base.Client().(model.Entreprise); ok && e.RaisonSociale != "" {
		return e.RaisonSociale
	}
	return base.NomClient
}
