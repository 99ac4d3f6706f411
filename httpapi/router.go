package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/pkg/jwt"
	"github.com/flaggly/flaggly/pkg/kv"
)

// AdminIssuer is the required iss claim on admin tokens.
const AdminIssuer = "flaggly.admin"

// Deps are the collaborators the HTTP layer wires together.
type Deps struct {
	KV        kv.Store
	Evaluator *engine.Evaluator
	JWT       *jwt.Service
	APIKey    string
	Log       *slog.Logger
}

type api struct {
	kv        kv.Store
	evaluator *engine.Evaluator
	log       *slog.Logger
}

// New builds the service router: evaluation endpoints behind the API
// key, admin endpoints behind the admin JWT.
func New(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}
	a := &api{kv: deps.KV, evaluator: deps.Evaluator, log: deps.Log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyAuth(deps.APIKey))
		r.Post("/eval", a.handleEvalAll)
		r.Post("/eval/{id}", a.handleEvalOne)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(jwt.Middleware(deps.JWT, AdminIssuer))
		r.Get("/flags", a.handleGetData)
		r.Put("/flags", a.handlePutFlag)
		r.Patch("/flags/{id}", a.handleUpdateFlag)
		r.Delete("/flags/{id}", a.handleDeleteFlag)
		r.Put("/segments", a.handlePutSegment)
		r.Delete("/segments/{id}", a.handleDeleteSegment)
	})

	return r
}

// requestLogger emits one structured record per request.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
