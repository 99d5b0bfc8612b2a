package api

import (
	"net/http"
	"time"

	"aiblecode/internal/api/handler"
	"aiblecode/internal/app/service"
	"aiblecode/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwt *security.JWT,
	authService *service.AuthService,
	problemService *service.ProblemService,
	submissionService *service.SubmissionService,
	reviewService *service.ReviewService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the "Authorization: Bearer T" token and puts claims in context.
	r.Use(jwtauth.Verifier(jwt.Auth()))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
		})

		problemHandler := handler.NewProblemHandler(problemService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		reviewHandler := handler.NewReviewHandler(reviewService)
		v1.Route("/reviews", reviewHandler.RegisterRoutes)
	})

	return r
}
