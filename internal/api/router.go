package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"resource_hub/internal/api/handler"
	"resource_hub/internal/api/middleware"
	"resource_hub/internal/app/service"
	"resource_hub/internal/common/security"
)

const welcomeMessage = "Welcome to the Cloud Study Resource Hub API!"

type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Resources *service.ResourceService
	Requests  *service.RequestService
}

type Options struct {
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	RequestTimeout     time.Duration
}

func NewRouter(opts Options, tokens *security.TokenManager, svc Services, log logrus.FieldLogger) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	metrics := middleware.NewMetrics()

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(metrics.Middleware)
	r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)))
	}

	// Puts the verified token, or the verification error, in the request
	// context. Routes decide with middleware.Authenticate.
	r.Use(middleware.Verifier(tokens))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(welcomeMessage))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth, log)
		authHandler.RegisterRoutes(api)

		userHandler := handler.NewUserHandler(svc.Users, log)
		api.Route("/users", func(users chi.Router) {
			users.Post("/register", authHandler.Register)
			userHandler.RegisterRoutes(users)
		})

		resourceHandler := handler.NewResourceHandler(svc.Resources, log)
		api.Route("/added-resources", resourceHandler.RegisterRoutes)

		requestHandler := handler.NewRequestHandler(svc.Requests, log)
		api.Route("/requests", requestHandler.RegisterRoutes)
	})

	return r
}
