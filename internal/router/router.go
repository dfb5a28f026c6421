// Package router sets up all HTTP routes and middleware chains for the
// thumbstudio server. Routes are grouped into the open auth surface and
// the authenticated API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"thumbstudio/internal/handlers"
	"thumbstudio/internal/middleware"
	"thumbstudio/internal/session"
)

// Options tunes the middleware stack.
type Options struct {
	// SecureCookies controls the Secure flag on the CSRF cookie.
	SecureCookies bool

	// GenerateLimit caps paid AI operations per client IP per minute.
	// Zero uses the default.
	GenerateLimit int

	// AuthLimit caps auth attempts per client IP per minute. Zero uses
	// the default.
	AuthLimit int
}

const (
	defaultGenerateLimit = 10
	defaultAuthLimit     = 20
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, studioH *handlers.Studio, shop *handlers.Shop, presets *handlers.Presets, opts Options) chi.Router {
	if opts.GenerateLimit <= 0 {
		opts.GenerateLimit = defaultGenerateLimit
	}
	if opts.AuthLimit <= 0 {
		opts.AuthLimit = defaultAuthLimit
	}

	generateLimiter := middleware.NewRateLimiter(opts.GenerateLimit, time.Minute)
	authLimiter := middleware.NewRateLimiter(opts.AuthLimit, time.Minute)

	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Auth — accessible without a session.
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", auth.Signup)
			r.Post("/signin", auth.Signin)
			r.Post("/logout", auth.Logout)
		})

		// Everything below requires a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", auth.Me)
			r.Delete("/me", auth.DeleteAccount)

			r.Route("/presets", func(r chi.Router) {
				r.Get("/", presets.List)
				r.Get("/{id}", presets.Get)
			})

			r.Route("/studio", func(r chi.Router) {
				r.Get("/", studioH.State)

				// Paid gateway operations get the tight limiter.
				r.Group(func(r chi.Router) {
					r.Use(generateLimiter.Middleware)
					r.Post("/generate", studioH.Generate)
					r.Post("/edit", studioH.Edit)
				})

				r.Put("/adjustments", studioH.Adjustments)
				r.Post("/adjustments/reset", studioH.ResetAdjustments)
				r.Post("/commit", studioH.Commit)

				r.Get("/history", studioH.History)
				r.Post("/history/{id}", studioH.SelectHistory)
				r.Delete("/history", studioH.ClearHistory)

				r.Get("/image/{id}", studioH.Image)
				r.Get("/image/{id}/preview", studioH.Preview)
				r.Get("/export", studioH.Export)
			})

			r.Route("/shop", func(r chi.Router) {
				r.Get("/", shop.OfferDetails)
				r.Get("/qr", shop.QR)
				r.Post("/verify", shop.Verify)
				r.Get("/purchases", shop.Purchases)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
