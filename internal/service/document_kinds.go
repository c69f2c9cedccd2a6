package service

import (
	"meubleerp/internal/dto"
	"meubleerp/internal/model"
	"meubleerp/internal/numbering"
	"meubleerp/internal/repository"
)

func NewDevisService(repo repository.DocumentRepository[model.Devis], alloc *numbering.Allocator, deps DocumentDeps) DocumentService {
	return newDocumentService(kindRules[model.Devis, *model.Devis]{
		kind:    model.KindDevis,
		statuts: []string{"brouillon", "envoye", "accepte", "refuse"},
		create: func(d *model.Devis, req dto.DocumentRequest) error {
			d.ValiditeJours = 30
			if req.ValiditeJours != nil {
				d.ValiditeJours = *req.ValiditeJours
			}
			return nil
		},
		patch: func(d *model.Devis, p dto.DocumentPatch) {
			if p.ValiditeJours != nil {
				d.ValiditeJours = *p.ValiditeJours
			}
		},
		respond: func(d *model.Devis, resp *dto.DocumentResponse) {
			v := d.ValiditeJours
			resp.ValiditeJours = &v
		},
	}, repo, alloc, deps)
}

func NewFactureService(repo repository.DocumentRepository[model.Facture], alloc *numbering.Allocator, deps DocumentDeps) DocumentService {
	return newDocumentService(kindRules[model.Facture, *model.Facture]{
		kind:    model.KindFacture,
		statuts: []string{"non_payee", "partiellement_payee", "payee", "annulee"},
		create: func(f *model.Facture, req dto.DocumentRequest) error {
			f.DateEcheance = req.DateEcheance
			f.ModePaiement = req.ModePaiement
			return nil
		},
		patch: func(f *model.Facture, p dto.DocumentPatch) {
			if p.DateEcheance != nil {
				f.DateEcheance = p.DateEcheance
			}
			if p.ModePaiement != nil {
				f.ModePaiement = p.ModePaiement
			}
		},
		respond: func(f *model.Facture, resp *dto.DocumentResponse) {
			resp.DateEcheance = formatDate(f.DateEcheance)
			resp.ModePaiement = f.ModePaiement
		},
	}, repo, alloc, deps)
}

func NewBonLivraisonService(repo repository.DocumentRepository[model.BonLivraison], alloc *numbering.Allocator, deps DocumentDeps) DocumentService {
	return newDocumentService(kindRules[model.BonLivraison, *model.BonLivraison]{
		kind:    model.KindBonLivraison,
		statuts: []string{"en_preparation", "expedie", "livre", "annule"},
		create: func(b *model.BonLivraison, req dto.DocumentRequest) error {
			b.AdresseLivraison = req.AdresseLivraison
			b.DateLivraison = req.DateLivraison
			b.ReferenceDevis = req.ReferenceDevis
			return nil
		},
		patch: func(b *model.BonLivraison, p dto.DocumentPatch) {
			if p.AdresseLivraison != nil {
				b.AdresseLivraison = p.AdresseLivraison
			}
			if p.DateLivraison != nil {
				b.DateLivraison = p.DateLivraison
			}
			if p.ReferenceDevis != nil {
				b.ReferenceDevis = p.ReferenceDevis
			}
		},
		respond: func(b *model.BonLivraison, resp *dto.DocumentResponse) {
			resp.AdresseLivraison = b.AdresseLivraison
			resp.DateLivraison = formatDate(b.DateLivraison)
			resp.ReferenceDevis = b.ReferenceDevis
		},
	}, repo, alloc, deps)
}

// NewRecuPaiementService builds the receipt service. A receipt without an
// explicit amount received records the full document total.
func NewRecuPaiementService(repo repository.DocumentRepository[model.RecuPaiement], alloc *numbering.Allocator, deps DocumentDeps) DocumentService {
	return newDocumentService(kindRules[model.RecuPaiement, *model.RecuPaiement]{
		kind:    model.KindRecuPaiement,
		statuts: []string{"valide", "annule"},
		create: func(r *model.RecuPaiement, req dto.DocumentRequest) error {
			if req.ModePaiement == nil || *req.ModePaiement == "" {
				return invalid("mode_paiement est obligatoire pour un reçu")
			}
			r.ModePaiement = *req.ModePaiement
			if req.MontantRecu != nil {
				r.MontantRecu = req.MontantRecu.Round(2)
			}
			r.ReferenceFacture = req.ReferenceFacture
			return nil
		},
		patch: func(r *model.RecuPaiement, p dto.DocumentPatch) {
			if p.ModePaiement != nil {
				r.ModePaiement = *p.ModePaiement
			}
			if p.MontantRecu != nil {
				r.MontantRecu = p.MontantRecu.Round(2)
			}
			if p.ReferenceFacture != nil {
				r.ReferenceFacture = p.ReferenceFacture
			}
		},
		priced: func(r *model.RecuPaiement) {
			if r.MontantRecu.IsZero() {
				r.MontantRecu = r.MontantTotal
			}
		},
		respond: func(r *model.RecuPaiement, resp *dto.DocumentResponse) {
			mode, montant := r.ModePaiement, r.MontantRecu
			resp.ModePaiement = &mode
			resp.MontantRecu = &montant
			resp.ReferenceFacture = r.ReferenceFacture
		},
	}, repo, alloc, deps)
}
