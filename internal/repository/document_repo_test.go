package repository_test

import (
	"context"
	"testing"
	"time"

	"meubleerp/internal/model"
	"meubleerp/internal/repository"
	"meubleerp/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nouvelleFacture(numero string, createdAt time.Time) *model.Facture {
	return &model.Facture{DocumentBase: model.DocumentBase{
		NumeroDocument: numero,
		Date:           createdAt,
		TypeClient:     model.ClientParticulier,
		NomClient:      "Amel K.",
		Articles: []model.Article{{
			Quantite:     decimal.NewFromInt(1),
			Description:  "Table basse chêne",
			PrixUnitaire: decimal.NewFromInt(25000),
			Total:        decimal.NewFromInt(25000),
		}},
		MontantTotal: decimal.NewFromInt(25000),
		Statut:       "non_payee",
		CreatedAt:    createdAt,
	}}
}

func TestDocumentRepo_CreateEtFindByID(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)
	ctx := context.Background()

	f := nouvelleFacture("1/26", time.Now())
	require.NoError(t, repo.Create(ctx, nil, f))
	require.NotEqual(t, uuid.Nil, f.ID)

	got, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "1/26", got.NumeroDocument)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "Table basse chêne", got.Articles[0].Description)
	assert.True(t, got.MontantTotal.Equal(decimal.NewFromInt(25000)))
}

func TestDocumentRepo_FindByID_Introuvable(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocumentRepo_ListPlusRecentEnPremier(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, nil, nouvelleFacture("1/26", base)))
	require.NoError(t, repo.Create(ctx, nil, nouvelleFacture("2/26", base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, nil, nouvelleFacture("3/26", base.Add(time.Hour))))

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "2/26", docs[0].NumeroDocument)
	assert.Equal(t, "3/26", docs[1].NumeroDocument)
	assert.Equal(t, "1/26", docs[2].NumeroDocument)
}

func TestDocumentRepo_NumeroUnique(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, nouvelleFacture("7/26", time.Now())))
	assert.Error(t, repo.Create(ctx, nil, nouvelleFacture("7/26", time.Now())))
}

func TestDocumentRepo_UpdateNeTouchePasAuNumero(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)
	ctx := context.Background()

	f := nouvelleFacture("4/26", time.Now())
	require.NoError(t, repo.Create(ctx, nil, f))

	f.NumeroDocument = "999/26"
	f.Statut = "payee"
	require.NoError(t, repo.Update(ctx, f))

	got, err := repo.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "4/26", got.NumeroDocument)
	assert.Equal(t, "payee", got.Statut)
}

func TestDocumentRepo_Delete(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{})
	repo := repository.NewDocumentRepository[model.Facture](db)
	ctx := context.Background()

	f := nouvelleFacture("5/26", time.Now())
	require.NoError(t, repo.Create(ctx, nil, f))

	require.NoError(t, repo.Delete(ctx, f.ID))
	assert.ErrorIs(t, repo.Delete(ctx, f.ID), repository.ErrNotFound)
}

func TestDocumentRepo_NumeroExiste(t *testing.T) {
	db := testutil.NewDB(t, &model.Facture{}, &model.Devis{})
	factures := repository.NewDocumentRepository[model.Facture](db)
	devis := repository.NewDocumentRepository[model.Devis](db)
	ctx := context.Background()

	require.NoError(t, factures.Create(ctx, nil, nouvelleFacture("3/26", time.Now())))

	ok, err := factures.NumeroExiste(ctx, nil, "3/26")
	require.NoError(t, err)
	assert.True(t, ok)

	// numbering namespaces are per document type
	ok, err = devis.NumeroExiste(ctx, nil, "3/26")
	require.NoError(t, err)
	assert.False(t, ok)
}
