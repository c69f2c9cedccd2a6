package router

import (
	"meubleerp/internal/config"
	"meubleerp/internal/handler"
	"meubleerp/internal/infra"
	"meubleerp/internal/middleware"
	"meubleerp/internal/model"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infra carries the connections the router needs beyond the services.
type Infra struct {
	Primary   *gorm.DB
	Secondary *gorm.DB
	Redis     *redis.Client // optional
	Limiter   *middleware.IPRateLimiter
	Mailer    *infra.GuardedMailer // optional, reported by /health
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, inf Infra, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	if inf.Limiter != nil {
		r.Use(middleware.RateLimiter(inf.Limiter))
	}

	dev := cfg.IsDevelopment()

	// ── Handlers ─────────────────────────────────────────────────────────────
	logosH := handler.NewLogosHandler(cfg.LogoDir)
	produitsH := handler.NewProduitsHandler(svcs.Produits, dev)
	caisseH := handler.NewCaisseHandler(svcs.Caisse, dev)

	var mailer handler.MailerStatus
	if inf.Mailer != nil {
		mailer = inf.Mailer
	}
	r.GET("/health", handler.Health(inf.Primary, inf.Secondary, inf.Redis, mailer))

	// ── Documents: same routes for every kind, under its slug ────────────────
	for _, kind := range model.Kinds {
		svc, ok := svcs.Documents[kind]
		if !ok {
			continue
		}
		h := handler.NewDocumentsHandler(svc, dev)
		slug := kind.Slug()

		r.POST("/create-"+slug, h.Creer)
		r.GET("/get-"+kind.Pluriel(), h.Lister)
		r.GET("/get-"+slug+"/:id", h.Obtenir)
		r.PUT("/update-"+slug+"/:id", h.MettreAJour)
		r.DELETE("/delete-"+slug+"/:id", h.Supprimer)
		r.GET("/"+slug+"-pdf/:id", h.PDF)

		g := r.Group("/" + slug)
		{
			g.POST("/upload-logo", logosH.Upload)
			g.GET("/logo/:logoName", logosH.Serve)
			g.POST("/:id/send", h.Envoyer)
		}
	}

	// ── Produits ─────────────────────────────────────────────────────────────
	r.POST("/create-product", produitsH.Creer)
	r.GET("/get-products", produitsH.Lister)
	r.GET("/get-product/:id", produitsH.Obtenir)
	r.PUT("/update-product/:id", produitsH.Modifier)
	r.DELETE("/delete-product/:id", produitsH.Supprimer)

	// ── Caisse ───────────────────────────────────────────────────────────────
	r.POST("/create-transaction", caisseH.Enregistrer)
	r.GET("/get-transactions", caisseH.Lister)
	r.DELETE("/delete-transaction/:id", caisseH.Supprimer)
	r.GET("/caisse/solde", caisseH.Solde)

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
