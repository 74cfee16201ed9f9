package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router builds the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newAccessLogger())
	r.Use(middleware.Recoverer)
	// No configured origins means no cross-origin access at all. Cookies are
	// only allowed for explicitly listed origins.
	if origins := s.config.Server.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: !slices.Contains(origins, "*"),
			MaxAge:           300,
		}))
	}
	r.Use(s.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/health", s.HealthCheckHandler)
	r.Get("/ws", s.ServeWsHandler)

	r.Post("/signup", s.SignupHandler)
	r.Post("/login", s.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		r.Post("/logout", s.LogoutHandler)
		r.Get("/me", s.GetCurrentUserHandler)
		r.Get("/dashboard", s.DashboardHandler)
		r.Get("/folder/{nodeId}", s.FolderHandler)
		r.Post("/upload", s.UploadFileHandler)
		r.Post("/create_folder", s.CreateFolderHandler)
		r.Get("/download_file/{nodeId}", s.DownloadFileHandler)
		r.Get("/view_file/{nodeId}", s.ViewFileHandler)
		r.Post("/rename_file/{nodeId}", s.RenameNodeHandler)
		r.Post("/move_file/{nodeId}", s.MoveNodeHandler)
		r.Delete("/delete_file/{nodeId}", s.DeleteNodeHandler)
	})

	return r
}
