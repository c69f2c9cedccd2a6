package handler

import (
	"net/http"

	"meubleerp/internal/apierror"
	"meubleerp/internal/dto"
	"meubleerp/internal/service"

	"github.com/gin-gonic/gin"
)

type ProduitsHandler struct {
	svc service.ProduitService
	errorResponder
}

func NewProduitsHandler(svc service.ProduitService, exposeInternal bool) *ProduitsHandler {
	return &ProduitsHandler{svc: svc, errorResponder: errorResponder{exposeInternal: exposeInternal}}
}

// Creer godoc
// @Summary      Créer un produit
// @Tags         produits
// @Accept       json
// @Produce      json
// @Param        body body     dto.CreerProduitRequest true "Produit"
// @Success      201  {object} dto.ProduitResponse
// @Failure      400  {object} apierror.ValidationError
// @Router       /create-product [post]
func (h *ProduitsHandler) Creer(c *gin.Context) {
	var req dto.CreerProduitRequest
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
// @Summary      Lister les produits
// @Tags         produits
// @Produce      json
// @Param        designation query string false "Recherche partielle"
// @Param        categorie   query string false "Catégorie exacte"
// @Param        actif       query string false "true | false"
// @Param        page        query int    false "Page (1 par défaut)"
// @Param        limit       query int    false "Taille de page (50 par défaut)"
// @Success      200 {object} dto.ProduitListResponse
// @Router       /get-products [get]
func (h *ProduitsHandler) Lister(c *gin.Context) {
	var filter dto.ProduitFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("pagination invalide"))
		return
	}
	resp, err := h.svc.Lister(c.Request.Context(), filter)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtenir godoc
// @Summary      Obtenir un produit
// @Description  Servi depuis le cache Redis quand il est disponible.
// @Tags         produits
// @Produce      json
// @Param        id  path     string true "UUID du produit"
// @Success      200 {object} dto.ProduitResponse
// @Failure      404 {object} apierror.APIError
// @Router       /get-product/{id} [get]
func (h *ProduitsHandler) Obtenir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenirParID(c.Request.Context(), id)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Modifier godoc
// @Summary      Modifier un produit
// @Tags         produits
// @Accept       json
// @Produce      json
// @Param        id   path     string                     true "UUID du produit"
// @Param        body body     dto.ModifierProduitRequest true "Champs à modifier"
// @Success      200  {object} dto.ProduitResponse
// @Failure      404  {object} apierror.APIError
// @Router       /update-product/{id} [put]
func (h *ProduitsHandler) Modifier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ModifierProduitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Modifier(c.Request.Context(), id, req)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Supprimer godoc
// @Summary      Supprimer un produit
// @Tags         produits
// @Param        id path string true "UUID du produit"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /delete-product/{id} [delete]
func (h *ProduitsHandler) Supprimer(c *gin.Context) {
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
