// renderdoc writes the PDF of a stored document to disk, or a sample quote
// with -exemple to preview the layout without a database.
//
//	go run ./cmd/renderdoc -type facture -id <uuid> -o facture.pdf
//	go run ./cmd/renderdoc -exemple -client entreprise -o exemple.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"meubleerp/internal/config"
	"meubleerp/internal/infra"
	"meubleerp/internal/model"
	"meubleerp/internal/pdf"
	"meubleerp/internal/pricing"
	"meubleerp/internal/router"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	kindFlag    = flag.String("type", "", "devis | facture | bon_livraison | recu_paiement")
	idFlag      = flag.String("id", "", "UUID of the stored document")
	outFlag     = flag.String("o", "", "output file (default <type>-<numero>.pdf)")
	exempleFlag = flag.Bool("exemple", false, "render a built-in sample quote instead of a stored document")
	clientFlag  = flag.String("client", "particulier", "client type for -exemple")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var (
		data     []byte
		filename string
	)
	if *exempleFlag {
		data, filename, err = renderExemple(cfg, model.ClientType(*clientFlag))
	} else {
		data, filename, err = renderStored(cfg, model.DocumentKind(*kindFlag), *idFlag)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}

	if *outFlag != "" {
		filename = *outFlag
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("write failed")
	}
	log.Info().Str("file", filename).Int("bytes", len(data)).Msg("document rendered")
}

func renderStored(cfg *config.Config, kind model.DocumentKind, rawID string) ([]byte, string, error) {
	if !kind.Valid() {
		return nil, "", fmt.Errorf("-type %q inconnu", kind)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, "", fmt.Errorf("-id: %w", err)
	}

	primary, err := infra.NewDatabase(cfg.PrimaryDatabaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("primary: %w", err)
	}
	secondary, err := infra.NewDatabase(cfg.SecondaryDatabaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("secondary: %w", err)
	}

	svcs := router.NewServices(cfg, primary, secondary, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := svcs.Documents.RenderPDF(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}
	return doc.Data, doc.Filename, nil
}

func renderExemple(cfg *config.Config, client model.ClientType) ([]byte, string, error) {
	devis := exemple(client)
	taux := decimal.NewFromFloat(cfg.DefaultTVARate)
	if err := pricing.Appliquer(devis, taux); err != nil {
		return nil, "", err
	}
	renderer := pdf.NewRenderer(router.IdentiteFromConfig(cfg), pdf.Options{
		Devise:  cfg.Devise,
		LogoDir: cfg.LogoDir,
		QRCode:  cfg.PDFQRCode,
	})
	data, err := renderer.RenderBytes(devis)
	return data, "devis-exemple.pdf", err
}

func exemple(client model.ClientType) *model.Devis {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	couleur := "CH-NAT"
	taux9 := d("9")
	devis := &model.Devis{ValiditeJours: 30}
	devis.NumeroDocument = fmt.Sprintf("0/%02d", time.Now().Year()%100)
	devis.Date = time.Now()
	devis.Statut = "brouillon"
	devis.TypeClient = client
	devis.NomClient = "Client exemple"
	devis.AdresseClient = "12 rue des Artisans"
	if client == model.ClientEntreprise {
		rs, rc := "SARL Exemple", "16/00-0000000B00"
		devis.RaisonSociale, devis.RegistreCommerce = &rs, &rc
	}
	devis.Articles = []model.Article{
		{Quantite: d("1"), Description: "Canapé d'angle 5 places", RefCouleur: &couleur, PrixUnitaire: d("185000"), Remise: d("5"),
			OptionChoisie: &model.OptionArticle{Nom: "Tissu anti-taches", Prix: d("12000")}},
		{Quantite: d("6"), Description: "Chaise en hêtre massif", PrixUnitaire: d("9500")},
		{Quantite: d("1"), Description: "Livraison et montage", PrixUnitaire: d("4000"), TauxTVA: &taux9},
	}
	return devis
}
