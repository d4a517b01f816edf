package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/catalog"
	"github.com/vtvstream/vtv/internal/database"
	"github.com/vtvstream/vtv/internal/httputil"
	"github.com/vtvstream/vtv/internal/metadata"
	"github.com/vtvstream/vtv/internal/plans"
	"github.com/vtvstream/vtv/internal/player"
	"github.com/vtvstream/vtv/internal/ratelimit"
	"github.com/vtvstream/vtv/internal/settings"
	"github.com/vtvstream/vtv/internal/subscription"
	"github.com/vtvstream/vtv/internal/validate"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	DB               database.DBTX
	Pinger           Pinger
	Storage          catalog.ObjectStorage
	Geo              catalog.GeoResolver
	Metadata         *metadata.Client
	Sessions         *player.Manager
	WebFS            fs.FS
	JWTSecret        string
	BaseURL          string
	AdminEmail       string
	AdminPIN         string
	MaxUploadBytes   int64
	S3PublicEndpoint string
}

type Server struct {
	router              chi.Router
	pinger              Pinger
	authHandler         *auth.Handler
	subscriptionHandler *subscription.Handler
	catalogHandler      *catalog.Handler
	settingsHandler     *settings.Handler
	metadataHandler     *metadata.Handler
	playerHandler       *player.Handler
	webFS               fs.FS
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:         cfg.BaseURL,
		StorageEndpoint: cfg.S3PublicEndpoint,
	}))

	s := &Server{router: r, pinger: cfg.Pinger, webFS: cfg.WebFS}

	if cfg.DB != nil {
		jwtSecret := cfg.JWTSecret
		if jwtSecret == "" {
			log.Fatal("JWT_SECRET is required; set the environment variable")
		}

		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}

		secureCookies := strings.HasPrefix(baseURL, "https://")
		s.authHandler = auth.NewHandler(cfg.DB, jwtSecret, secureCookies)
		if cfg.AdminEmail != "" && cfg.AdminPIN != "" {
			s.authHandler.SetAdminCredentials(cfg.AdminEmail, cfg.AdminPIN)
		}

		s.subscriptionHandler = subscription.NewHandler(cfg.DB)
		s.catalogHandler = catalog.NewHandler(cfg.DB, cfg.Storage, cfg.MaxUploadBytes)
		if cfg.Geo != nil {
			s.catalogHandler.SetGeoResolver(cfg.Geo)
		}
		s.settingsHandler = settings.NewHandler(cfg.DB, cfg.Storage)
		s.metadataHandler = metadata.NewHandler(cfg.Metadata)

		sessions := cfg.Sessions
		if sessions == nil {
			sessions = player.NewManager(player.DefaultIdleTTL)
		}
		s.playerHandler = player.NewHandler(sessions)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/plans", plans.List)
	s.router.Get("/api/limits", handleLimits)

	if s.authHandler != nil {
		authLimiter := ratelimit.NewLimiter(0.5, 5)
		s.router.Route("/api/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", s.authHandler.Register)
			r.Post("/login", s.authHandler.Login)
			r.Post("/admin", s.authHandler.AdminLogin)
			r.Post("/refresh", s.authHandler.Refresh)
			r.Post("/logout", s.authHandler.Logout)
		})

		s.router.Get("/api/settings", s.settingsHandler.Get)

		apiLimiter := ratelimit.NewLimiter(5, 20)
		s.router.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware)
			r.Use(s.authHandler.Middleware)

			r.Get("/api/me", s.authHandler.Me)
			r.Post("/api/subscription/claim", s.subscriptionHandler.Claim)
			r.Get("/api/notifications", s.subscriptionHandler.Notifications)
			r.Post("/api/notifications/{id}/read", s.subscriptionHandler.MarkNotificationRead)

			r.Get("/api/content", s.catalogHandler.Browse)
			r.Get("/api/content/{id}", s.catalogHandler.Detail)
			r.Get("/api/categories", s.catalogHandler.ListCategories)
			r.Get("/api/watch/{id}", s.catalogHandler.Watch)
			r.Post("/api/watch/{id}/transport", s.playerHandler.Transport)
			r.Delete("/api/watch/{id}/transport", s.playerHandler.Close)
			r.Post("/api/suggestions", s.catalogHandler.SubmitSuggestion)
		})

		s.router.Route("/api/admin", func(r chi.Router) {
			r.Use(apiLimiter.Middleware)
			r.Use(s.authHandler.Middleware)
			r.Use(s.authHandler.RequireAdmin)

			r.Post("/preview", s.authHandler.AdminPreview)

			r.Get("/users", s.subscriptionHandler.ListUsers)
			r.Post("/users/{id}/validate", s.subscriptionHandler.Validate)
			r.Post("/users/{id}/deactivate", s.subscriptionHandler.Deactivate)
			r.Post("/users/{id}/remind", s.subscriptionHandler.Remind)

			r.Post("/content", s.catalogHandler.CreateContent)
			r.Put("/content/{id}", s.catalogHandler.UpdateContent)
			r.Delete("/content/{id}", s.catalogHandler.DeleteContent)
			r.Post("/categories", s.catalogHandler.CreateCategory)
			r.Delete("/categories/{id}", s.catalogHandler.DeleteCategory)

			r.Get("/suggestions", s.catalogHandler.ListSuggestions)
			r.Patch("/suggestions/{id}", s.catalogHandler.UpdateSuggestionStatus)
			r.Delete("/suggestions/{id}", s.catalogHandler.DeleteSuggestion)

			r.Post("/uploads", s.catalogHandler.CreateUpload)
			r.Get("/metadata", s.metadataHandler.Lookup)
			r.Get("/stats", s.catalogHandler.Stats)

			r.Patch("/settings", s.settingsHandler.Update)
			r.Post("/assets", s.settingsHandler.CreateAsset)
			r.Get("/assets", s.settingsHandler.ListAssets)
			r.Delete("/assets/{id}", s.settingsHandler.DeleteAsset)
		})
	}

	if s.webFS != nil {
		spa := newSPAFileServer(s.webFS)
		s.router.NotFound(spa.ServeHTTP)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func handleLimits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, validate.FieldLimits())
}
