package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Tasks     *TaskHandler
	Resources *ResourceHandler
	Health    *HealthHandler
	Metrics   *Metrics
}

func NewRouter(h Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		r.Route("/tasks", func(r chi.Router) {
			// статические пути раньше {id}
			r.Get("/", h.Tasks.ListTasks)
			r.Post("/", h.Tasks.CreateTask)
			r.Get("/stats", h.Tasks.Statistics)
			r.Get("/team", h.Tasks.TeamBreakdown)
			r.Get("/filters", h.Tasks.FilterOptions)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Tasks.GetTask)
				r.Put("/", h.Tasks.UpdateTask)
				r.Delete("/", h.Tasks.DeleteTask)
				r.Get("/history", h.Tasks.TaskHistory)
			})
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.Resources.ListResources)
			r.Post("/", h.Resources.CreateResource)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Resources.GetResource)
				r.Put("/", h.Resources.UpdateResource)
				r.Delete("/", h.Resources.DeleteResource)
			})
		})
	})

	return r
}

// requestLogger - аналог middleware.Logger поверх zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
