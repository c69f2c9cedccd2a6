package handler

import (
	"fmt"
	"net/http"

	"meubleerp/internal/dto"
	"meubleerp/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentsHandler serves one document kind. The router registers one
// instance per kind under that kind's slug.
type DocumentsHandler struct {
	svc service.DocumentService
	errorResponder
}

func NewDocumentsHandler(svc service.DocumentService, exposeInternal bool) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, errorResponder: errorResponder{exposeInternal: exposeInternal}}
}

// Creer godoc
// @Summary      Créer un document
// @Description  Attribue le prochain numéro, calcule les totaux et enregistre le document. Une requête invalide ne consomme aucun numéro.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path     string              true "devis | facture | bon-livraison | recu-paiement"
// @Param        body body     dto.DocumentRequest true "Document"
// @Success      201  {object} dto.DocumentResponse
// @Failure      400  {object} apierror.ValidationError
// @Failure      500  {object} apierror.APIError
// @Router       /create-{type} [post]
func (h *DocumentsHandler) Creer(c *gin.Context) {
	var req dto.DocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Creer(c.Request.Context(), req)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Lister godoc
// @Summary      Lister les documents
// @Description  Tous les documents du type, du plus récent au plus ancien.
// @Tags         documents
// @Produce      json
// @Param        types path    string true "devis | factures | bons-livraison | recus-paiement"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /get-{types} [get]
func (h *DocumentsHandler) Lister(c *gin.Context) {
	resp, err := h.svc.Lister(c.Request.Context())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtenir godoc
// @Summary      Obtenir un document
// @Tags         documents
// @Produce      json
// @Param        type path     string true "devis | facture | bon-livraison | recu-paiement"
// @Param        id   path     string true "UUID du document"
// @Success      200  {object} dto.DocumentResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /get-{type}/{id} [get]
func (h *DocumentsHandler) Obtenir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtenir(c.Request.Context(), id)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MettreAJour godoc
// @Summary      Modifier un document
// @Description  Mise à jour partielle. Les totaux sont recalculés quand les articles ou le type de client changent. Le numéro ne change jamais.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path     string            true "devis | facture | bon-livraison | recu-paiement"
// @Param        id   path     string            true "UUID du document"
// @Param        body body     dto.DocumentPatch true "Champs à modifier"
// @Success      200  {object} dto.DocumentResponse
// @Failure      400  {object} apierror.ValidationError
// @Failure      404  {object} apierror.APIError
// @Router       /update-{type}/{id} [put]
func (h *DocumentsHandler) MettreAJour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch dto.DocumentPatch
	if !bindAndValidate(c, &patch) {
		return
	}
	resp, err := h.svc.MettreAJour(c.Request.Context(), id, patch)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Supprimer godoc
// @Summary      Supprimer un document
// @Description  Le numéro supprimé n'est jamais réattribué.
// @Tags         documents
// @Param        type path string true "devis | facture | bon-livraison | recu-paiement"
// @Param        id   path string true "UUID du document"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /delete-{type}/{id} [delete]
func (h *DocumentsHandler) Supprimer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Supprimer(c.Request.Context(), id); err != nil {
		h.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PDF godoc
// @Summary      Télécharger le PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        type path string true "devis | facture | bon-livraison | recu-paiement"
// @Param        id   path string true "UUID du document"
// @Success      200  {file} binary
// @Failure      404  {object} apierror.APIError
// @Router       /{type}-pdf/{id} [get]
func (h *DocumentsHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.svc.GenererPDF(c.Request.Context(), id)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// Envoyer godoc
// @Summary      Envoyer le document par e-mail
// @Description  Met en file l'envoi du PDF. Sans adresse dans la requête, l'e-mail du client est utilisé.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path     string           true  "devis | facture | bon-livraison | recu-paiement"
// @Param        id   path     string           true  "UUID du document"
// @Param        body body     dto.EnvoiRequest false "Destinataire"
// @Success      202  {object} dto.EnvoiResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /{type}/{id}/send [post]
func (h *DocumentsHandler) Envoyer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EnvoiRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Envoyer(c.Request.Context(), id, req.Email)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
