package httpapi

import (
	"context"
	"net/http"
	"time"

	"filippo.io/csrf/gorilla"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"picks-site-backend-go/internal/config"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/services"
)

type Server struct {
	Config config.Config
	Log    zerolog.Logger

	Auth      services.Authenticator
	Playbooks services.PlaybookService
	Products  services.ProductService
	Catalog   services.CatalogService
	Comments  services.CommentService
	Contacts  *services.ContactService
	Leads     *services.LeadFeed

	proxies        trustedProxies
	loginLimiter   *limiterCache[string]
	contactLimiter *limiterCache[string]
}

// NewServer wires every service over repos. notifier may be nil, in which case leads
// are stored and marked failed.
func NewServer(cfg config.Config, repos *repository.Repositories, notifier services.Notifier, leads *services.LeadFeed, log zerolog.Logger) *Server {
	recommender := services.Recommender{
		Playbooks: repos.Playbooks,
		Products:  repos.Products,
		Log:       log.With().Str("component", "recommender").Logger(),
	}
	if notifier == nil {
		notifier = services.WebhookNotifier{
			URL:    cfg.ContactWebhookURL,
			ShopID: cfg.ShopID,
			Client: &http.Client{},
		}
	}
	proxies, invalid := parseTrustedProxies(cfg.TrustedProxies)
	for _, value := range invalid {
		log.Warn().Str("value", value).Msg("ignoring invalid TRUSTED_PROXIES entry")
	}
	return &Server{
		Config: cfg,
		Log:    log,
		Auth: services.Authenticator{
			PasswordHash: cfg.AdminPasswordHash,
			Secret:       []byte(cfg.AdminSessionSecret),
			TTL:          cfg.SessionTTL,
		},
		Playbooks: services.PlaybookService{
			Playbooks:   repos.Playbooks,
			Categories:  repos.Categories,
			Tags:        repos.Tags,
			Recommender: recommender,
		},
		Products: services.ProductService{
			Products:    repos.Products,
			Recommender: recommender,
		},
		Catalog: services.CatalogService{
			Categories: repos.Categories,
			Tags:       repos.Tags,
			Playbooks:  repos.Playbooks,
		},
		Comments: services.CommentService{Comments: repos.Comments},
		Contacts: &services.ContactService{
			Contacts: repos.Contacts,
			Notifier: notifier,
			Feed:     leads,
			Timeout:  cfg.WebhookTimeout,
			Log:      log.With().Str("component", "contact").Logger(),
		},
		Leads:          leads,
		proxies:        proxies,
		loginLimiter:   newLimiterCache[string](perMinute(cfg.LoginRatePerMinute)),
		contactLimiter: newLimiterCache[string](perMinute(cfg.ContactRatePerMinute)),
	}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.Log))
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.Health)
	r.Get("/go/{slug}", s.PickRedirect)
	r.With(RateLimit(s.contactLimiter, s.proxies.clientIP)).Post("/api/contact", s.SubmitContact)

	r.Route("/api/public", func(pub chi.Router) {
		pub.Get("/categories", s.PublicCategories)
		pub.Get("/tags", s.PublicTags)
		pub.Route("/playbooks", func(pb chi.Router) {
			pb.Get("/", s.PublicPlaybooks)
			pb.Get("/{slug}", s.PublicPlaybookDetail)
			pb.Get("/{id}/comments", s.PublicComments)
			pb.Post("/{id}/comments", s.SubmitComment)
		})
		pub.Route("/picks", func(picks chi.Router) {
			picks.Get("/", s.PublicPicks)
			picks.Get("/{slug}", s.PublicPickDetail)
		})
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.csrf())
		admin.Get("/login", s.LoginPage)
		admin.With(RateLimit(s.loginLimiter, s.proxies.clientIP)).Post("/login", s.Login)

		admin.Group(func(gated chi.Router) {
			gated.Use(RouteAdmission)
			gated.Post("/logout", s.Logout)
			gated.With(s.RequireSession).Get("/ws/leads", s.LeadSocket)

			gated.Route("/api", func(api chi.Router) {
				api.Use(s.RequireSession)
				api.Get("/me", s.Me)

				api.Route("/categories", func(c chi.Router) {
					c.Get("/", s.AdminListCategories)
					c.Post("/", s.AdminCreateCategory)
					c.Put("/{id}", s.AdminUpdateCategory)
					c.Delete("/{id}", s.AdminDeleteCategory)
				})
				api.Route("/tags", func(t chi.Router) {
					t.Get("/", s.AdminListTags)
					t.Post("/", s.AdminCreateTag)
					t.Put("/{id}", s.AdminUpdateTag)
					t.Delete("/{id}", s.AdminDeleteTag)
				})
				api.Route("/playbooks", func(pb chi.Router) {
					pb.Get("/", s.AdminListPlaybooks)
					pb.Post("/", s.AdminCreatePlaybook)
					pb.Get("/{id}", s.AdminGetPlaybook)
					pb.Put("/{id}", s.AdminUpdatePlaybook)
					pb.Post("/{id}/status", s.AdminSetPlaybookStatus)
					pb.Put("/{id}/tags", s.AdminSetPlaybookTags)
				})
				api.Route("/products", func(p chi.Router) {
					p.Get("/", s.AdminListProducts)
					p.Post("/", s.AdminCreateProduct)
					p.Put("/{id}", s.AdminUpdateProduct)
					p.Get("/{id}/links", s.AdminProductLinks)
					p.Post("/{id}/links", s.AdminCreateLink)
					p.Put("/links/{linkId}", s.AdminUpdateLink)
				})
				api.Route("/comments", func(c chi.Router) {
					c.Get("/", s.AdminCommentQueue)
					c.Post("/{id}/approve", s.AdminApproveComment)
					c.Post("/{id}/reject", s.AdminRejectComment)
				})
				api.Get("/contacts", s.AdminListContacts)
			})
		})
	})
	return r
}

func (s *Server) csrf() func(http.Handler) http.Handler {
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(s.csrfFailed))}
	if len(s.Config.CSRFTrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(s.Config.CSRFTrustedOrigins))
	}
	return csrf.Protect([]byte(s.Config.AdminSessionSecret), opts...)
}

func (s *Server) csrfFailed(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	s.Log.Warn().
		Str("reason", reason).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("origin", r.Header.Get("Origin")).
		Msg("csrf check failed")
	WriteError(w, http.StatusForbidden, "Cross-site request rejected")
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"leadClients": s.Leads.Clients(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
