/*
Package handler provides the HTTP handlers and routing setup for the bin store server.

This file defines the main Router, applying logging, CORS and IP-based rate limiting
before delegating requests to the bin and proof-of-work handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"digame/internal/pkg/limiter"
	"digame/internal/pkg/logx"
	"digame/internal/pkg/pow"
	"digame/internal/pkg/resp"
)

const (
	CreateRate  = 0.05
	CreateBurst = 3

	// Every client writes a heartbeat per poll, plus sends and registrations.
	WriteRate  = 2
	WriteBurst = 10
)

// Router sets up the routing table of the bin store server. The rate limiters' cleanup
// goroutines stop when ctx is done.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(CreateRate), CreateBurst)
	writeLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(WriteRate), WriteBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", pow.TokenHeaderKey},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "digame bin store",
		})
	})

	r.Route("/pow", func(p chi.Router) {
		p.Get("/challenge", HandleChallenge(deps))
		p.Post("/verify", HandleVerify(deps))
	})

	r.Route("/bins", func(bins chi.Router) {
		bins.With(createLimiter.Middleware, requireProof(deps)).Post("/", HandleCreateBin(deps))

		bins.Get("/{id}", HandleGetBin(deps))

		bins.Group(func(write chi.Router) {
			write.Use(writeLimiter.Middleware)
			write.Post("/{id}", HandlePutBin(deps))
			write.Put("/{id}", HandlePutBin(deps))
		})
	})

	return r
}
