package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Reshigan/SalesSync-sub013/api/controllers"
	"github.com/Reshigan/SalesSync-sub013/api/middleware"
	"github.com/Reshigan/SalesSync-sub013/internal/promotion"
	"github.com/Reshigan/SalesSync-sub013/internal/trademarketing"
	"github.com/Reshigan/SalesSync-sub013/pkg/config"
	"github.com/Reshigan/SalesSync-sub013/pkg/db"
	"github.com/Reshigan/SalesSync-sub013/pkg/logger"
	"github.com/Reshigan/SalesSync-sub013/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	promotionService promotion.Service,
	campaignService trademarketing.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Identity(logg),
			middleware.Idempotency(redisClient, logg),
		)

		r.Route("/promotions", func(r chi.Router) {
			r.Post("/", controllers.PromotionCreate(promotionService, logg))
			r.Get("/", controllers.PromotionList(promotionService, logg))
			r.Post("/apply", controllers.PromotionApply(promotionService, logg))
			r.Get("/{promotionId}/analytics", controllers.PromotionAnalytics(promotionService, logg))
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", controllers.CampaignCreate(campaignService, logg))
			r.Post("/coop", controllers.CoopCampaignCreate(campaignService, logg))
			r.Post("/merchandising", controllers.MerchandisingCampaignCreate(campaignService, logg))
			r.Post("/{campaignId}/spend", controllers.CampaignSpendTrack(campaignService, logg))
			r.Post("/{campaignId}/advance", controllers.CampaignWorkflowAdvance(campaignService, logg))
			r.Get("/{campaignId}/roi", controllers.CampaignROI(campaignService, logg))
			r.Get("/{campaignId}/dashboard", controllers.CampaignDashboard(campaignService, logg))
		})
	})

	return r
}
