package handler

import (
	"net/http"

	"meubleerp/internal/dto"
	"meubleerp/internal/service"

	"github.com/gin-gonic/gin"
)

type CaisseHandler struct {
	svc service.CaisseService
	errorResponder
}

func NewCaisseHandler(svc service.CaisseService, exposeInternal bool) *CaisseHandler {
	return &CaisseHandler{svc: svc, errorResponder: errorResponder{exposeInternal: exposeInternal}}
}

// Enregistrer godoc
// @Summary      Enregistrer une opération de caisse
// @Tags         caisse
// @Accept       json
// @Produce      json
// @Param        body body     dto.TransactionCaisseRequest true "Opération"
// @Success      201  {object} dto.TransactionCaisseResponse
// @Failure      400  {object} apierror.ValidationError
// @Router       /create-transaction [post]
func (h *CaisseHandler) Enregistrer(c *gin.Context) {
	var req dto.TransactionCaisseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Enregistrer(c.Request.Context(), req)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Lister godoc
// @Summary      Journal de caisse
// @Tags         caisse
// @Produce      json
// @Success      200 {array} dto.TransactionCaisseResponse
// @Router       /get-transactions [get]
func (h *CaisseHandler) Lister(c *gin.Context) {
	resp, err := h.svc.Lister(c.Request.Context())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Supprimer godoc
// @Summary      Supprimer une opération erronée
// @Tags         caisse
// @Param        id path string true "UUID de l'opération"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /delete-transaction/{id} [delete]
func (h *CaisseHandler) Supprimer(c *gin.Context) {
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

// Solde godoc
// @Summary      Solde de caisse par mode de paiement
// @Tags         caisse
// @Produce      json
// @Success      200 {object} dto.SoldeCaisseResponse
// @Router       /caisse/solde [get]
func (h *CaisseHandler) Solde(c *gin.Context) {
	resp, err := h.svc.Solde(c.Request.Context())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
