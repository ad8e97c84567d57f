package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianpress/meridian-backend/api/controllers"
	"github.com/meridianpress/meridian-backend/api/middleware"
	cartsvc "github.com/meridianpress/meridian-backend/internal/cart"
	checkoutsvc "github.com/meridianpress/meridian-backend/internal/checkout"
	consentsvc "github.com/meridianpress/meridian-backend/internal/consent"
	"github.com/meridianpress/meridian-backend/internal/content"
	membersvc "github.com/meridianpress/meridian-backend/internal/member"
	waitlistsvc "github.com/meridianpress/meridian-backend/internal/waitlist"
	"github.com/meridianpress/meridian-backend/pkg/config"
	"github.com/meridianpress/meridian-backend/pkg/logger"
	"github.com/meridianpress/meridian-backend/pkg/metrics"
	"github.com/meridianpress/meridian-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	DB          controllers.Pinger
	Content     *content.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Carts    cartsvc.Service
	Members  membersvc.Service
	Checkout checkoutsvc.Service
	Consent  consentsvc.Service
	Waitlist waitlistsvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    d.Redis,
			"content":  d.Content,
		}))
	})

	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Visitor(cfg.VisitorToken, logg))

		r.Get("/ping", controllers.VisitorPing())

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", controllers.ArticlesList(d.Content, logg))
			r.Get("/{slug}", controllers.ArticleGet(d.Content, logg))
		})
		r.Route("/magazines", func(r chi.Router) {
			r.Get("/", controllers.MagazinesList(d.Content, logg))
			r.Get("/{slug}", controllers.MagazineGet(d.Content, logg))
		})
		r.Get("/regions", controllers.RegionsList(d.Content, logg))

		r.Route("/exclusives", func(r chi.Router) {
			r.Use(middleware.RequireMember(d.Members, logg))
			r.Get("/", controllers.ExclusivesList(d.Content, logg))
			r.Get("/{slug}", controllers.ExclusiveGet(d.Content, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Carts, logg))
			r.Delete("/", controllers.CartClear(d.Carts, logg))
			r.Post("/items", controllers.CartAddItem(d.Carts, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(d.Carts, logg))
			r.Put("/open", controllers.CartSetOpen(d.Carts, logg))
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/me", controllers.MemberCurrent(d.Members, logg))
			r.With(middleware.LoginRateLimit(cfg.LoginRateLimit, d.Redis, logg)).
				Post("/login", controllers.MemberLogin(d.Members, logg))
			r.Post("/logout", controllers.MemberLogout(d.Members, logg))
			r.Put("/modal", controllers.MemberModal(d.Members, logg))
		})

		r.Post("/checkout", controllers.CheckoutHandoff(d.Checkout, logg))

		r.Route("/consent", func(r chi.Router) {
			r.Get("/", controllers.ConsentFetch(d.Consent, logg))
			r.Put("/", controllers.ConsentSubmit(d.Consent, logg))
		})

		r.Post("/waitlist", controllers.WaitlistJoin(d.Waitlist, logg))
	})

	return r
}
