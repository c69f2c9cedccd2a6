package service_test

import (
	"context"
	"testing"

	"meubleerp/internal/dto"
	"meubleerp/internal/model"
	"meubleerp/internal/repository"
	"meubleerp/internal/service"
	"meubleerp/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduitService(t *testing.T) service.ProduitService {
	db := testutil.NewDB(t, &model.Produit{})
	return service.NewProduitService(repository.NewProduitRepository(db), nil)
}

func TestProduit_CRUD(t *testing.T) {
	svc := newProduitService(t)
	ctx := context.Background()

	created, err := svc.Creer(ctx, dto.CreerProduitRequest{
		Reference:   "CAN-3P-01",
		Designation: "Canapé 3 places Milano",
		Categorie:   "salon",
		PrixAchat:   decimal.NewFromInt(60000),
		PrixVente:   decimal.NewFromInt(89000),
		Couleurs:    []string{"GR-04", "BE-02"},
		Stock:       4,
	})
	require.NoError(t, err)
	assert.True(t, created.Actif)
	assert.Equal(t, []string{"GR-04", "BE-02"}, created.Couleurs)

	id := uuid.MustParse(created.ID)
	got, err := svc.ObtenirParID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Canapé 3 places Milano", got.Designation)

	updated, err := svc.Modifier(ctx, id, dto.ModifierProduitRequest{PrixVente: ptr(decimal.NewFromInt(92000)), Stock: ptr(3)})
	require.NoError(t, err)
	assert.True(t, updated.PrixVente.Equal(decimal.NewFromInt(92000)))
	assert.Equal(t, 3, updated.Stock)

	list, err := svc.Lister(ctx, dto.ProduitFilter{Categorie: "salon", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, 1, list.TotalPages)

	require.NoError(t, svc.Supprimer(ctx, id))
	_, err = svc.ObtenirParID(ctx, id)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProduit_ReferenceDupliquee(t *testing.T) {
	svc := newProduitService(t)
	ctx := context.Background()
	req := dto.CreerProduitRequest{Reference: "TAB-01", Designation: "Table", Categorie: "sejour", PrixVente: decimal.NewFromInt(1)}

	_, err := svc.Creer(ctx, req)
	require.NoError(t, err)
	_, err = svc.Creer(ctx, req)
	assert.ErrorIs(t, err, service.ErrValidation)
}
