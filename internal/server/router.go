// Package server wires the HTTP router for the treasury API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/harambee/backend/internal/config"
	"github.com/harambee/backend/internal/handlers"
	"github.com/harambee/backend/internal/metrics"
	mW "github.com/harambee/backend/internal/middleware"
	"github.com/harambee/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services are the domain services the router dispatches to.
type Services struct {
	Auth          *services.AuthService
	KYC           *services.KYCService
	Treasury      *services.TreasuryService
	Proposals     *services.ProposalService
	Notifications *services.NotificationService
}

// NewRouter builds the chi router with middleware and all API routes.
func NewRouter(cfg *config.Config, svc Services, m *metrics.Metrics) http.Handler {
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg.SecureCookies)
	kycHandler := handlers.NewKYCHandler(svc.KYC, authHandler, cfg.UploadMaxBytes)
	groupHandler := handlers.NewGroupHandler(svc.Treasury)
	proposalHandler := handlers.NewProposalHandler(svc.Proposals, cfg.UploadMaxBytes)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)

	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	if m != nil {
		r.Use(m.Middleware)
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/users", func(r chi.Router) {
		// Public endpoints
		r.Post("/members", authHandler.Register)
		r.Post("/phone/request-otp", authHandler.RequestOTP)
		r.Post("/phone/verify-otp", authHandler.VerifyOTP)

		r.Get("/groups/{id}", groupHandler.GetGroup)
		r.Get("/groups/{id}/members", groupHandler.GetMembers)
		r.Patch("/groups/me/treasury", groupHandler.SyncTreasury)
		r.Get("/groups/me/transactions/{txId}/iso20022", groupHandler.ExportTransaction)

		r.Post("/proposals", proposalHandler.CreateProposal)
		r.Get("/proposals/{id}", proposalHandler.GetProposal)
		r.Get("/proposals/{id}/votes", proposalHandler.GetVotes)
		r.Post("/proposals/{id}/start-sms-voting", proposalHandler.StartSMSVoting)
		r.Post("/proposals/{id}/verify-ai", proposalHandler.VerifyAI)
		r.Get("/proposals/{id}/image", proposalHandler.GetImage)
		r.Get("/proposals/{id}/wallet-qr", proposalHandler.GetWalletQR)

		r.Get("/stats/notifications", notificationHandler.List)

		// Session endpoints
		r.Group(func(r chi.Router) {
			r.Use(mW.Auth(svc.Auth))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Post("/kyc/documents", kycHandler.UploadDocument)
			r.Get("/kyc/members/me/documents", kycHandler.Status)
			r.Post("/kyc/review", kycHandler.Review)

			r.Post("/proposals/{id}/votes", proposalHandler.CastVote)
		})
	})

	return r
}
