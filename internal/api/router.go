package api

import (
	"net/http"
	"time"

	"streamvault/internal/api/handler"
	appmiddleware "streamvault/internal/api/middleware"
	"streamvault/internal/app/service"
	"streamvault/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	sessionService *service.SessionService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the access token (cookie or bearer header) and puts claims in
	// context. Routes stay public unless the Authenticator middleware is added.
	r.Use(jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromHeader, appmiddleware.TokenFromAccessCookie))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService, sessionService)
		v1.Route("/users", authHandler.RegisterRoutes)
	})

	return r
}
