package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/metrics"
)

// RouterDeps are the collaborators NewRouter wires into handlers.
type RouterDeps struct {
	Game        *app.GameService
	Admin       *app.AdminService
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	CORSOrigins []string
}

// NewRouter builds the HTTP API. Metrics is optional.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	game := NewGameHandler(deps.Game, log)
	ws := NewWSHandler(deps.Game, log, originChecker(origins))
	r.Get("/ws/leaderboard", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		game.Routes(r)
		if deps.Admin != nil {
			r.Route("/admin", NewAdminHandler(deps.Admin, log).Routes)
		}
	})
	return r
}

// originChecker allows websocket upgrades from the CORS origins, plus same-host requests.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
