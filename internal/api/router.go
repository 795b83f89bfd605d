package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/delegation-tools/delegation-manager/internal/api/handler"
	"github.com/delegation-tools/delegation-manager/internal/api/middleware"
	"github.com/delegation-tools/delegation-manager/internal/service"
	"github.com/delegation-tools/delegation-manager/internal/storage"
)

// NewRouter creates a new HTTP router with all routes configured. oidc may
// be nil when OIDC bearer auth is not configured.
func NewRouter(
	store storage.Storage,
	svc *service.AdminService,
	bootstrapKey string,
	oidc middleware.OIDCVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes (auth required, JSON Content-Type)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)
		r.Use(middleware.Auth(store, bootstrapKey, oidc))

		// API Keys
		keyHandler := handler.NewAPIKeyHandler(store)
		r.Post("/keys", keyHandler.Create)
		r.Get("/keys", keyHandler.List)
		r.Delete("/keys/{id}", keyHandler.Delete)

		// Entities and nested rules
		entityHandler := handler.NewEntityHandler(svc)
		ruleHandler := handler.NewRuleHandler(svc)
		r.Route("/entities/{kind}", func(r chi.Router) {
			r.Get("/", entityHandler.List)
			r.Post("/", entityHandler.Create)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", entityHandler.Get)
				r.Delete("/", entityHandler.Delete)
				r.Post("/rename", entityHandler.Rename)
				r.Put("/comment", entityHandler.SetComment)
				r.Put("/description", entityHandler.SetDescription)

				r.Get("/rules", ruleHandler.List)
				r.Post("/rules", ruleHandler.Create)
				r.Delete("/rules/{rule}", ruleHandler.Delete)
				r.Post("/rules/{rule}/rename", ruleHandler.Rename)
				r.Put("/rules/{rule}/comment", ruleHandler.SetComment)
			})
		})

		// Delegations
		delegationHandler := handler.NewDelegationHandler(svc)
		r.Get("/delegations", delegationHandler.List)
		r.Post("/delegations", delegationHandler.Grant)
		r.Delete("/delegations", delegationHandler.Revoke)

		// Powers (read-only)
		powerHandler := handler.NewPowerHandler(svc)
		r.Get("/powers", powerHandler.List)

		// Server discovery
		serverHandler := handler.NewServerHandler(svc)
		r.Get("/servers", serverHandler.List)

		// Audit trail
		auditHandler := handler.NewAuditHandler(store)
		r.Get("/audit", auditHandler.List)
		r.Get("/audit/{id}", auditHandler.Get)
	})

	return r
}
