package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes builds the full HTTP handler of the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/ws", s.ServeWsHandler)
	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Blog server is running. API documentation is at /swagger/index.html"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.RegisterHandler)
		r.Post("/auth/login", s.LoginHandler)
		r.Post("/auth/refresh", s.RefreshTokenHandler)
		r.Post("/auth/logout", s.LogoutHandler)

		r.Get("/users", s.ListUsersHandler)
		r.Get("/blog/{username}", s.ListPostsHandler)
		r.Get("/blog/{username}/{postname}", s.ViewPostHandler)
		r.Get("/download/{username}/{postname}", s.DownloadPostHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Get("/me", s.GetCurrentUserHandler)
			r.Post("/posts", s.CreatePostHandler)
			r.Get("/sessions", s.ListSessionsHandler)
			r.Delete("/sessions/{sessionId}", s.DeleteSessionHandler)
			r.Post("/sessions/terminate_all", s.TerminateAllSessionsHandler)
			r.Get("/events", s.GetEventsHandler)
		})
	})

	return r
}
