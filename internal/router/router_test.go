package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meubleerp/internal/config"
	"meubleerp/internal/infra"
	"meubleerp/internal/model"
	"meubleerp/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	engine    *gin.Engine
	primary   *gorm.DB
	secondary *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	primary := testutil.NewDB(t)
	secondary := testutil.NewDB(t)
	require.NoError(t, infra.MigratePrimary(primary))
	require.NoError(t, infra.MigrateSecondary(secondary))

	cfg := &config.Config{
		Env:            "test",
		LogoDir:        t.TempDir(),
		Devise:         "DA",
		DefaultTVARate: 19,
		SocieteNom:     "Meubles du Sahel",
	}
	svcs := NewServices(cfg, primary, secondary, nil)
	r := New(cfg, Infra{Primary: primary, Secondary: secondary}, svcs)
	return &testEnv{engine: r, primary: primary, secondary: secondary}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type docBody struct {
	ID             string `json:"id"`
	NumeroDocument string `json:"numero_document"`
	TotalHT        string `json:"total_ht"`
	MontantTVA     string `json:"montant_tva"`
	TotalTTC       string `json:"total_ttc"`
	MontantTotal   string `json:"montant_total"`
}

func documentRequest(extra map[string]any) map[string]any {
	req := map[string]any{
		"type_client":       "entreprise",
		"nom_client":        "Service achats",
		"raison_sociale":    "SARL Hôtel Les Dunes",
		"registre_commerce": "30/00-0012345B20",
		"articles": []any{
			map[string]any{"quantite": "2", "description": "Chaise", "prix_unitaire": "100", "remise": "10"},
		},
	}
	for k, v := range extra {
		req[k] = v
	}
	return req
}

func yy() int { return time.Now().Year() % 100 }

func TestDocumentLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/create-facture", documentRequest(map[string]any{"mode_paiement": "virement"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fac := decode[docBody](t, w)
	assert.Equal(t, fmt.Sprintf("1/%02d", yy()), fac.NumeroDocument)
	assert.Equal(t, "180", fac.TotalHT)
	assert.Equal(t, "34.2", fac.MontantTVA)
	assert.Equal(t, "214.2", fac.TotalTTC)

	w = env.do(t, http.MethodGet, "/get-facture/"+fac.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/update-facture/"+fac.ID, map[string]any{
		"articles": []any{map[string]any{"quantite": "1", "description": "Table", "prix_unitaire": "500"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	upd := decode[docBody](t, w)
	assert.Equal(t, fac.NumeroDocument, upd.NumeroDocument)
	assert.Equal(t, "500", upd.TotalHT)

	w = env.do(t, http.MethodGet, "/facture-pdf/"+fac.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf(`attachment; filename="facture-1-%02d.pdf"`, yy()), w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = env.do(t, http.MethodDelete, "/delete-facture/"+fac.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/get-facture/"+fac.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, "/delete-facture/"+fac.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// a deleted number is never handed out again
	w = env.do(t, http.MethodPost, "/create-facture", documentRequest(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, fmt.Sprintf("2/%02d", yy()), decode[docBody](t, w).NumeroDocument)
}

func TestInvalidRequestDoesNotConsumeNumber(t *testing.T) {
	env := setupTestEnv(t)

	bad := documentRequest(nil)
	bad["articles"] = []any{map[string]any{"description": "Chaise", "prix_unitaire": "100"}}
	w := env.do(t, http.MethodPost, "/create-devis", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.primary.Model(&model.Devis{}).Count(&count).Error)
	assert.Zero(t, count)

	w = env.do(t, http.MethodPost, "/create-devis", documentRequest(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, fmt.Sprintf("1/%02d", yy()), decode[docBody](t, w).NumeroDocument)
}

func TestKindsLiveOnTheirConnection(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/create-devis", "/create-facture", "/create-bon-livraison", "/create-recu-paiement"} {
		body := documentRequest(map[string]any{"mode_paiement": "espece"})
		w := env.do(t, http.MethodPost, path, body)
		require.Equal(t, http.StatusCreated, w.Code, path+": "+w.Body.String())
	}

	var n int64
	env.primary.Model(&model.Devis{}).Count(&n)
	assert.EqualValues(t, 1, n)
	assert.False(t, env.secondary.Migrator().HasTable("devis"))
	env.secondary.Model(&model.RecuPaiement{}).Count(&n)
	assert.EqualValues(t, 1, n)

	// each counter is independent
	w := env.do(t, http.MethodGet, "/get-recus-paiement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recus := decode[[]docBody](t, w)
	require.Len(t, recus, 1)
	assert.Equal(t, fmt.Sprintf("001/%02d", yy()), recus[0].NumeroDocument)

	for _, plural := range []string{"devis", "factures", "bons-livraison"} {
		w := env.do(t, http.MethodGet, "/get-"+plural, nil)
		require.Equal(t, http.StatusOK, w.Code, plural)
		docs := decode[[]docBody](t, w)
		require.Len(t, docs, 1, plural)
		assert.Equal(t, fmt.Sprintf("1/%02d", yy()), docs[0].NumeroDocument, plural)
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/create-devis", documentRequest(nil))
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(5 * time.Millisecond)
	}
	docs := decode[[]docBody](t, env.do(t, http.MethodGet, "/get-devis", nil))
	require.Len(t, docs, 3)
	assert.Equal(t, fmt.Sprintf("3/%02d", yy()), docs[0].NumeroDocument)
	assert.Equal(t, fmt.Sprintf("1/%02d", yy()), docs[2].NumeroDocument)
}

func TestSendWithoutRedisIs503(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodPost, "/create-devis", documentRequest(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[docBody](t, w).ID

	w = env.do(t, http.MethodPost, "/devis/"+id+"/send", map[string]any{"email": "achats@dunes.example"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProduitsAndCaisse(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/create-product", map[string]any{
		"reference": "CH-01", "designation": "Chaise chêne", "categorie": "sejour",
		"prix_vente": "8500", "couleurs": []string{"naturel", "noyer"}, "stock": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	prod := decode[struct {
		ID string `json:"id"`
	}](t, w)

	w = env.do(t, http.MethodGet, "/get-product/"+prod.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/get-products?categorie=sejour", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	w = env.do(t, http.MethodPut, "/update-product/"+prod.ID, map[string]any{"stock": 3})
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, "/delete-product/"+prod.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, tx := range []map[string]any{
		{"type": "entree", "mode_paiement": "espece", "montant": "1000", "description": "Acompte devis"},
		{"type": "sortie", "mode_paiement": "espece", "montant": "250", "description": "Transport"},
		{"type": "entree", "mode_paiement": "cheque", "montant": "4000", "description": "Solde facture"},
	} {
		w := env.do(t, http.MethodPost, "/create-transaction", tx)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodGet, "/caisse/solde", nil)
	require.Equal(t, http.StatusOK, w.Code)
	solde := decode[struct {
		ParMode map[string]string `json:"par_mode"`
		Total   string            `json:"total"`
	}](t, w)
	assert.Equal(t, "750", solde.ParMode["espece"])
	assert.Equal(t, "4000", solde.ParMode["cheque"])
	assert.Equal(t, "4750", solde.Total)

	w = env.do(t, http.MethodPost, "/create-transaction", map[string]any{
		"type": "entree", "mode_paiement": "espece", "montant": "0", "description": "rien",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db_primary":"connected","db_secondary":"connected","redis":"disabled"}`, w.Body.String())
}

type downRelay struct{}

func (downRelay) Send(string, string, string, string, []byte) error {
	return fmt.Errorf("dial tcp: connection refused")
}

func TestHealth_ReportsOpenSMTPCircuit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	primary := testutil.NewDB(t)
	secondary := testutil.NewDB(t)
	cfg := &config.Config{Env: "test", LogoDir: t.TempDir(), Devise: "DA", DefaultTVARate: 19}

	mailer := infra.NewGuardedMailer(downRelay{}, infra.BreakerConfig{MaxFailures: 1, Pause: time.Hour})
	require.Error(t, mailer.Send("c@example.com", "s", "b", "f.pdf", nil))

	r := New(cfg, Infra{Primary: primary, Secondary: secondary, Mailer: mailer}, NewServices(cfg, primary, secondary, nil))
	env := &testEnv{engine: r, primary: primary, secondary: secondary}

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		OK   bool `json:"ok"`
		SMTP struct {
			State    string `json:"state"`
			Failures int    `json:"failures"`
			RetryAt  string `json:"retry_at"`
		} `json:"smtp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "open", body.SMTP.State)
	assert.Equal(t, 1, body.SMTP.Failures)
	assert.NotEmpty(t, body.SMTP.RetryAt)
}
