package router

import (
	"meubleerp/internal/config"
	"meubleerp/internal/model"
	"meubleerp/internal/numbering"
	"meubleerp/internal/pdf"
	"meubleerp/internal/repository"
	"meubleerp/internal/service"
	"meubleerp/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Services is the business layer shared by the HTTP router and the worker pool.
type Services struct {
	Documents service.Documents
	Produits  service.ProduitService
	Caisse    service.CaisseService
	Renderer  *pdf.Renderer
}

// NewServices wires repositories and services onto their connections:
// devis and produits on primary; factures, bons, reçus and caisse on secondary.
// A nil rdb disables the product cache and document e-mailing.
func NewServices(cfg *config.Config, primary, secondary *gorm.DB, rdb *redis.Client) *Services {
	renderer := pdf.NewRenderer(IdentiteFromConfig(cfg), pdf.Options{
		Devise:  cfg.Devise,
		LogoDir: cfg.LogoDir,
		QRCode:  cfg.PDFQRCode,
	})

	taux := decimal.NewFromFloat(cfg.DefaultTVARate)
	deps := service.DocumentDeps{
		Renderer: renderer,
		TauxTVA:  &taux,
	}
	if rdb != nil {
		deps.Queue = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	primaryAlloc := numbering.NewAllocator(repository.NewCompteurRepository(primary))
	secondaryAlloc := numbering.NewAllocator(repository.NewCompteurRepository(secondary))

	devisRepo := repository.NewDocumentRepository[model.Devis](primary)
	factureRepo := repository.NewDocumentRepository[model.Facture](secondary)
	bonRepo := repository.NewDocumentRepository[model.BonLivraison](secondary)
	recuRepo := repository.NewDocumentRepository[model.RecuPaiement](secondary)
	produitRepo := repository.NewProduitRepository(primary)
	caisseRepo := repository.NewCaisseRepository(secondary)

	// ── Services ─────────────────────────────────────────────────────────────
	return &Services{
		Documents: service.NewDocuments(
			service.NewDevisService(devisRepo, primaryAlloc, deps),
			service.NewFactureService(factureRepo, secondaryAlloc, deps),
			service.NewBonLivraisonService(bonRepo, secondaryAlloc, deps),
			service.NewRecuPaiementService(recuRepo, secondaryAlloc, deps),
		),
		Produits: service.NewProduitService(produitRepo, rdb),
		Caisse:   service.NewCaisseService(caisseRepo),
		Renderer: renderer,
	}
}

// IdentiteFromConfig maps the SOCIETE_* settings onto the document header.
func IdentiteFromConfig(cfg *config.Config) pdf.Identite {
	return pdf.Identite{
		Nom:              cfg.SocieteNom,
		Activite:         cfg.SocieteActivite,
		Adresse:          cfg.SocieteAdresse,
		Telephone:        cfg.SocieteTelephone,
		Email:            cfg.SocieteEmail,
		RegistreCommerce: cfg.SocieteRegistreCommerce,
		NumeroFiscal:     cfg.SocieteNumeroFiscal,
		ArticleImpot:     cfg.SocieteArticleImpot,
		Banque:           cfg.SocieteBanque,
		RIB:              cfg.SocieteRIB,
	}
}
