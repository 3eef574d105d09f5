package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/habitboard/internal/metrics"
	"github.com/limbo/habitboard/pkg/httputil"
	"github.com/prometheus/client_golang/prometheus"
)

type Server struct {
	mx         *chi.Mux
	sessions   SessionProviderI
	jwtService JWTServiceI
	limiter    *RateLimiter
	gatherer   prometheus.Gatherer
}

type Options struct {
	Sessions    SessionProviderI
	JwtService  JWTServiceI
	RateLimiter *RateLimiter
	Gatherer    prometheus.Gatherer
}

func New(opts *Options) *Server {
	s := &Server{
		mx:         chi.NewMux(),
		sessions:   opts.Sessions,
		jwtService: opts.JwtService,
		limiter:    opts.RateLimiter,
		gatherer:   opts.Gatherer,
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)

	s.mx.Get("/health", s.Health)
	if s.gatherer != nil {
		s.mx.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		r.Use(s.LoggerExtensionMiddleware)
		if s.limiter != nil {
			r.Use(s.limiter.Middleware())
		}

		r.Post("/boards", s.CreateBoard)
		r.Post("/boards/{id}/join", s.JoinBoard)
		r.Post("/boards/{id}/connect", s.ConnectBoard)

		r.Get("/board", s.GetBoard)
		r.Post("/board/sync", s.SyncBoard)
		r.Patch("/board/name", s.RenameBoard)

		r.Post("/habits", s.AddHabit)
		r.Patch("/habits/{id}/title", s.RenameHabit)
		r.Post("/habits/{id}/archive", s.ArchiveHabit)
		r.Post("/habits/{id}/move", s.MoveHabit)
		r.Delete("/habits/{id}", s.DeleteHabit)

		r.Post("/entries/toggle", s.ToggleEntry)

		r.Post("/window/shift", s.ShiftWindow)
		r.Post("/window/reset", s.ResetWindow)
		r.Put("/prefs/show-archived", s.SetShowArchived)

		r.Patch("/members/{id}", s.UpdateMember)

		r.Post("/disconnect", s.Disconnect)
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"ok": true})
}
