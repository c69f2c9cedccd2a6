package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"meubleerp/internal/dto"
	"meubleerp/internal/model"
	"meubleerp/internal/numbering"
	"meubleerp/internal/pdf"
	"meubleerp/internal/pricing"
	"meubleerp/internal/repository"
	"meubleerp/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentService is the business contract shared by the four document kinds.
type DocumentService interface {
	Kind() model.DocumentKind
	Creer(ctx context.Context, req dto.DocumentRequest) (*dto.DocumentResponse, error)
	Lister(ctx context.Context) ([]dto.DocumentResponse, error)
	Obtenir(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	MettreAJour(ctx context.Context, id uuid.UUID, patch dto.DocumentPatch) (*dto.DocumentResponse, error)
	Supprimer(ctx context.Context, id uuid.UUID) error
	GenererPDF(ctx context.Context, id uuid.UUID) (*worker.RenderedDocument, error)
	Envoyer(ctx context.Context, id uuid.UUID, email *string) (*dto.EnvoiResponse, error)
}

// EmailQueue accepts document e-mail jobs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, job worker.EmailJob) error
}

// DocumentDeps are the collaborators shared by every document service.
type DocumentDeps struct {
	Renderer *pdf.Renderer
	Queue    EmailQueue       // nil disables Envoyer
	TauxTVA  *decimal.Decimal // nil means pricing.DefaultTauxTVA; zero is a valid rate
	Now      func() time.Time
}

// docPtr constrains PT to the pointer type of a document model.
type docPtr[T any] interface {
	*T
	model.Document
}

// kindRules carries what differs between document kinds.
type kindRules[T any, PT docPtr[T]] struct {
	kind    model.DocumentKind
	statuts []string // first entry is the default
	create  func(doc PT, req dto.DocumentRequest) error
	patch   func(doc PT, p dto.DocumentPatch)
	priced  func(doc PT) // after totals are computed
	respond func(doc PT, resp *dto.DocumentResponse)
}

type documentService[T any, PT docPtr[T]] struct {
	rules kindRules[T, PT]
	repo  repository.DocumentRepository[T]
	alloc *numbering.Allocator
	deps  DocumentDeps
	taux  decimal.Decimal
}

func newDocumentService[T any, PT docPtr[T]](rules kindRules[T, PT], repo repository.DocumentRepository[T], alloc *numbering.Allocator, deps DocumentDeps) *documentService[T, PT] {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	taux := pricing.DefaultTauxTVA
	if deps.TauxTVA != nil {
		taux = *deps.TauxTVA
	}
	return &documentService[T, PT]{rules: rules, repo: repo, alloc: alloc, deps: deps, taux: taux}
}

func (s *documentService[T, PT]) Kind() model.DocumentKind { return s.rules.kind }

// ── Creer ────────────────────────────────────────────────────────────────────
// Validation and totals happen before the transaction, so an invalid request
// never touches the counter. Inside the transaction:
//   1. lock the counter row and draw the next free number
//   2. insert the document
// A failed insert rolls the counter back with it.

func (s *documentService[T, PT]) Creer(ctx context.Context, req dto.DocumentRequest) (*dto.DocumentResponse, error) {
	doc := PT(new(T))
	base := doc.Base()

	base.Date = s.deps.Now()
	if req.Date != nil {
		base.Date = *req.Date
	}
	base.TypeClient = model.ClientType(req.TypeClient)
	base.NomClient = strings.TrimSpace(req.NomClient)
	base.AdresseClient = req.AdresseClient
	base.TelephoneClient = req.TelephoneClient
	base.EmailClient = req.EmailClient
	base.RaisonSociale = req.RaisonSociale
	base.RegistreCommerce = req.RegistreCommerce
	base.NumeroFiscal = req.NumeroFiscal
	base.Articles = articlesFromRequest(req.Articles)
	base.LogoPersonnalise = req.LogoPersonnalise
	base.Notes = req.Notes

	base.Statut = s.rules.statuts[0]
	if req.Statut != nil {
		base.Statut = *req.Statut
	}
	if err := s.validate(base); err != nil {
		return nil, err
	}
	if s.rules.create != nil {
		if err := s.rules.create(doc, req); err != nil {
			return nil, err
		}
	}

	taux := s.taux
	if req.TauxTVA != nil {
		taux = *req.TauxTVA
	}
	if err := s.price(doc, taux); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.alloc.Allocate(ctx, tx, s.rules.kind, s.repo.NumeroExiste)
		if err != nil {
			return err
		}
		base.NumeroDocument = numero
		return s.repo.Create(ctx, tx, (*T)(doc))
	})
	if err != nil {
		return nil, fmt.Errorf("création %s: %w", s.rules.kind, err)
	}

	log.Info().
		Str("kind", string(s.rules.kind)).
		Str("numero", base.NumeroDocument).
		Str("id", base.ID.String()).
		Str("montant_total", base.MontantTotal.StringFixed(2)).
		Msg("document créé")
	return s.toResponse(doc), nil
}

func (s *documentService[T, PT]) Lister(ctx context.Context) ([]dto.DocumentResponse, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, *s.toResponse(PT(&docs[i])))
	}
	return out, nil
}

func (s *documentService[T, PT]) Obtenir(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(doc), nil
}

// MettreAJour applies patch. Totals are recomputed when lines, client type or
// rate change; the document number never changes. A taxed document keeps its
// stored rate, zero included. An untaxed one stores no rate, so it takes the
// default when it becomes taxed.
func (s *documentService[T, PT]) MettreAJour(ctx context.Context, id uuid.UUID, patch dto.DocumentPatch) (*dto.DocumentResponse, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	base := doc.Base()
	recalcul := false
	taxe := pricing.PolicyFor(doc.Kind(), base.Client()).Taxable()

	if patch.Date != nil {
		base.Date = *patch.Date
	}
	if patch.TypeClient != nil && model.ClientType(*patch.TypeClient) != base.TypeClient {
		base.TypeClient = model.ClientType(*patch.TypeClient)
		recalcul = true
	}
	if patch.NomClient != nil {
		base.NomClient = strings.TrimSpace(*patch.NomClient)
	}
	if patch.AdresseClient != nil {
		base.AdresseClient = *patch.AdresseClient
	}
	if patch.TelephoneClient != nil {
		base.TelephoneClient = *patch.TelephoneClient
	}
	if patch.EmailClient != nil {
		base.EmailClient = patch.EmailClient
	}
	if patch.RaisonSociale != nil {
		base.RaisonSociale = patch.RaisonSociale
	}
	if patch.RegistreCommerce != nil {
		base.RegistreCommerce = patch.RegistreCommerce
	}
	if patch.NumeroFiscal != nil {
		base.NumeroFiscal = patch.NumeroFiscal
	}
	if patch.Articles != nil {
		base.Articles = articlesFromRequest(patch.Articles)
		recalcul = true
	}
	if patch.LogoPersonnalise != nil {
		base.LogoPersonnalise = patch.LogoPersonnalise
	}
	if patch.Statut != nil {
		base.Statut = *patch.Statut
	}
	if patch.Notes != nil {
		base.Notes = patch.Notes
	}
	if s.rules.patch != nil {
		s.rules.patch(doc, patch)
	}
	if err := s.validate(base); err != nil {
		return nil, err
	}

	taux := s.taux
	if taxe {
		taux = base.TauxTVA
	}
	if patch.TauxTVA != nil {
		taux = *patch.TauxTVA
		recalcul = true
	}
	if recalcul {
		if err := s.price(doc, taux); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, (*T)(doc)); err != nil {
		return nil, fmt.Errorf("mise à jour %s %s: %w", s.rules.kind, base.NumeroDocument, err)
	}
	return s.toResponse(doc), nil
}

func (s *documentService[T, PT]) Supprimer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err, fmt.Sprintf("%s %s", s.rules.kind, id))
	}
	log.Info().Str("kind", string(s.rules.kind)).Str("id", id.String()).Msg("document supprimé")
	return nil
}

// GenererPDF renders the stored document. The filename is
// "<slug>-<numero>.pdf" with "/" replaced by "-".
func (s *documentService[T, PT]) GenererPDF(ctx context.Context, id uuid.UUID) (*worker.RenderedDocument, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(doc, &buf); err != nil {
		return nil, err
	}
	numero := doc.Base().NumeroDocument
	return &worker.RenderedDocument{
		Titre:    s.rules.kind.Titre(),
		Numero:   numero,
		Filename: Filename(s.rules.kind, numero),
		Data:     buf.Bytes(),
	}, nil
}

// Envoyer queues the document for e-mailing to email, or to the client's
// address when email is nil.
func (s *documentService[T, PT]) Envoyer(ctx context.Context, id uuid.UUID, email *string) (*dto.EnvoiResponse, error) {
	if s.deps.Queue == nil {
		return nil, fmt.Errorf("envoi par e-mail: %w", ErrIndisponible)
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	to := ""
	if email != nil {
		to = strings.TrimSpace(*email)
	} else if e := doc.Base().EmailClient; e != nil {
		to = strings.TrimSpace(*e)
	}
	if to == "" {
		return nil, invalid("aucune adresse e-mail pour %s %s", s.rules.kind, doc.Base().NumeroDocument)
	}

	job := worker.EmailJob{Kind: s.rules.kind, ID: id.String(), Email: to}
	if err := s.deps.Queue.EnqueueEmail(ctx, job); err != nil {
		return nil, fmt.Errorf("mise en file e-mail: %w", err)
	}
	return &dto.EnvoiResponse{Message: "envoi programmé", Email: to}, nil
}

// Filename is the download name of a rendered document.
func Filename(kind model.DocumentKind, numero string) string {
	return kind.Slug() + "-" + strings.ReplaceAll(numero, "/", "-") + ".pdf"
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *documentService[T, PT]) find(ctx context.Context, id uuid.UUID) (PT, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("%s %s", s.rules.kind, id))
	}
	return PT(doc), nil
}

func (s *documentService[T, PT]) validate(base *model.DocumentBase) error {
	if base.NomClient == "" {
		return invalid("nom_client est obligatoire")
	}
	if base.TypeClient == model.ClientEntreprise {
		if base.RaisonSociale == nil || strings.TrimSpace(*base.RaisonSociale) == "" {
			return invalid("raison_sociale est obligatoire pour une entreprise")
		}
		if base.RegistreCommerce == nil || strings.TrimSpace(*base.RegistreCommerce) == "" {
			return invalid("registre_commerce est obligatoire pour une entreprise")
		}
	}
	if !slices.Contains(s.rules.statuts, base.Statut) {
		return invalid("statut %q invalide pour %s (attendu : %s)", base.Statut, s.rules.kind, strings.Join(s.rules.statuts, ", "))
	}
	return nil
}

func (s *documentService[T, PT]) price(doc PT, taux decimal.Decimal) error {
	if err := pricing.Appliquer(doc, taux); err != nil {
		if errors.Is(err, pricing.ErrAucunArticle) {
			return fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		return err
	}
	if s.rules.priced != nil {
		s.rules.priced(doc)
	}
	return nil
}

func (s *documentService[T, PT]) toResponse(doc PT) *dto.DocumentResponse {
	b := doc.Base()
	resp := &dto.DocumentResponse{
		ID:               b.ID.String(),
		Type:             string(s.rules.kind),
		NumeroDocument:   b.NumeroDocument,
		Date:             b.Date.Format(time.RFC3339),
		TypeClient:       string(b.TypeClient),
		NomClient:        b.NomClient,
		AdresseClient:    b.AdresseClient,
		TelephoneClient:  b.TelephoneClient,
		EmailClient:      b.EmailClient,
		RaisonSociale:    b.RaisonSociale,
		RegistreCommerce: b.RegistreCommerce,
		NumeroFiscal:     b.NumeroFiscal,
		Articles:         b.Articles,
		SousTotal:        b.SousTotal,
		TotalRemise:      b.TotalRemise,
		TotalHT:          b.TotalHT,
		TauxTVA:          b.TauxTVA,
		MontantTVA:       b.MontantTVA,
		TotalTTC:         b.TotalTTC,
		MontantTotal:     b.MontantTotal,
		LogoPersonnalise: b.LogoPersonnalise,
		Statut:           b.Statut,
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        b.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Articles == nil {
		resp.Articles = []model.Article{}
	}
	if s.rules.respond != nil {
		s.rules.respond(doc, resp)
	}
	return resp
}

func articlesFromRequest(reqs []dto.ArticleRequest) []model.Article {
	out := make([]model.Article, 0, len(reqs))
	for _, r := range reqs {
		a := model.Article{
			Description: strings.TrimSpace(r.Description),
			RefCouleur:  r.RefCouleur,
			TauxTVA:     r.TauxTVA,
		}
		if r.Quantite != nil {
			a.Quantite = *r.Quantite
		}
		if r.PrixUnitaire != nil {
			a.PrixUnitaire = *r.PrixUnitaire
		}
		if r.Remise != nil {
			a.Remise = *r.Remise
		}
		if o := r.OptionChoisie; o != nil {
			a.OptionChoisie = &model.OptionArticle{Nom: o.Nom, TauxTVA: o.TauxTVA}
			if o.Prix != nil {
				a.OptionChoisie.Prix = *o.Prix
			}
		}
		out = append(out, a)
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
