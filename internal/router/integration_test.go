//go:build integration

package router

// Runs the router against real Postgres and Redis via testcontainers.
// go test -tags integration ./internal/router/... -v

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"meubleerp/internal/config"
	"meubleerp/internal/infra"
	"meubleerp/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T, ctx context.Context, name string) *gorm.DB {
	t.Helper()
	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase(name),
		tcPostgres.WithUsername("meuble"),
		tcPostgres.WithPassword("meuble"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func startRedis(t *testing.T, ctx context.Context) *redis.Client {
	t.Helper()
	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	return rdb
}

type integrationEnv struct {
	*testEnv
	rdb  *redis.Client
	svcs *Services
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	primary := startPostgres(t, ctx, "meuble_primary")
	secondary := startPostgres(t, ctx, "meuble_secondary")
	rdb := startRedis(t, ctx)
	require.NoError(t, infra.MigratePrimary(primary))
	require.NoError(t, infra.MigrateSecondary(secondary))

	cfg := &config.Config{Env: "test", LogoDir: t.TempDir(), Devise: "DA", DefaultTVARate: 19, SocieteNom: "Meubles du Sahel"}
	svcs := NewServices(cfg, primary, secondary, rdb)
	r := New(cfg, Infra{Primary: primary, Secondary: secondary, Redis: rdb}, svcs)
	return &integrationEnv{
		testEnv: &testEnv{engine: r, primary: primary, secondary: secondary},
		rdb:     rdb,
		svcs:    svcs,
	}
}

func TestIntegration_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	env := setupIntegration(t)

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numeros []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := env.do(t, http.MethodPost, "/create-facture", documentRequest(nil))
			if !assert.Equal(t, http.StatusCreated, w.Code, w.Body.String()) {
				return
			}
			mu.Lock()
			numeros = append(numeros, decode[docBody](t, w).NumeroDocument)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numeros, n)
	sort.Slice(numeros, func(i, j int) bool {
		var a, b int
		fmt.Sscanf(numeros[i], "%d/", &a)
		fmt.Sscanf(numeros[j], "%d/", &b)
		return a < b
	})
	for i, num := range numeros {
		assert.Equal(t, fmt.Sprintf("%d/%02d", i+1, yy()), num)
	}
}

func TestIntegration_ProductCacheInvalidation(t *testing.T) {
	env := setupIntegration(t)

	w := env.do(t, http.MethodPost, "/create-product", map[string]any{
		"reference": "TB-02", "designation": "Table basse", "categorie": "salon", "prix_vente": "23000",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[struct {
		ID string `json:"id"`
	}](t, w).ID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/get-product/"+id, nil).Code)
	exists, err := env.rdb.Exists(context.Background(), "produit:"+id).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/update-product/"+id, map[string]any{"prix_vente": "21000"}).Code)
	exists, _ = env.rdb.Exists(context.Background(), "produit:"+id).Result()
	assert.EqualValues(t, 0, exists)

	w = env.do(t, http.MethodGet, "/get-product/"+id, nil)
	assert.Contains(t, w.Body.String(), `"prix_vente":"21000"`)
}

type captureSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *captureSender) Send(to, _, _, filename string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.sent = append(s.sent, to+" "+filename)
	return nil
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestIntegration_SendDocumentThroughWorkerPool(t *testing.T) {
	env := setupIntegration(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &captureSender{}
	w := worker.NewEmailWorker(env.svcs.Documents, infra.NewGuardedMailer(sender, infra.DefaultBreakerConfig()), env.rdb, "Meubles du Sahel")
	wg := worker.StartWorkerPool(ctx, env.rdb, 2, map[string]worker.JobHandler{worker.JobEmail: w})

	resp := env.do(t, http.MethodPost, "/create-devis", documentRequest(map[string]any{"email_client": "achats@dunes.example"}))
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decode[docBody](t, resp).ID

	resp = env.do(t, http.MethodPost, "/devis/"+id+"/send", nil)
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())

	require.Eventually(t, func() bool { return sender.count() == 1 }, 15*time.Second, 100*time.Millisecond)
	assert.Equal(t, fmt.Sprintf("achats@dunes.example devis-1-%02d.pdf", yy()), sender.sent[0])

	n, err := worker.DLQLength(context.Background(), env.rdb, worker.QueueEmail)
	require.NoError(t, err)
	assert.Zero(t, n)

	cancel()
	wg.Wait()
}

func TestIntegration_FailedSendLandsInDLQ(t *testing.T) {
	env := setupIntegration(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &captureSender{fail: true}
	w := worker.NewEmailWorker(env.svcs.Documents, infra.NewGuardedMailer(sender, infra.DefaultBreakerConfig()), env.rdb, "Meubles du Sahel")
	wg := worker.StartWorkerPool(ctx, env.rdb, 1, map[string]worker.JobHandler{worker.JobEmail: w})

	resp := env.do(t, http.MethodPost, "/create-facture", documentRequest(nil))
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decode[docBody](t, resp).ID
	resp = env.do(t, http.MethodPost, "/facture/"+id+"/send", map[string]any{"email": "compta@dunes.example"})
	require.Equal(t, http.StatusAccepted, resp.Code)

	require.Eventually(t, func() bool {
		n, err := worker.DLQLength(context.Background(), env.rdb, worker.QueueEmail)
		return err == nil && n == 1
	}, 20*time.Second, 200*time.Millisecond)

	cancel()
	wg.Wait()
}
