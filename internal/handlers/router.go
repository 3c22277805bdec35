package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/internal/metrics"
	"github.com/Miltondz/one-page-rpg-sub001/internal/middleware"
	"github.com/Miltondz/one-page-rpg-sub001/internal/services"
	"github.com/Miltondz/one-page-rpg-sub001/internal/storage"
)

type RouterConfig struct {
	Registry *games.Registry
	Storage  storage.Storage
	LLM      services.LLMService // nil when generation is disabled
	Metrics  *metrics.Metrics    // nil disables /metrics
	Logger   *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	s := NewServer(cfg.Registry, cfg.Metrics, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)

	r.Method(http.MethodGet, "/health", NewHealthHandler(cfg.Storage, cfg.LLM, cfg.Logger))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/v1/games", func(r chi.Router) {
		r.Post("/", s.createGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", s.withGame(s.getGame))
			r.Delete("/", s.deleteGame)

			r.Post("/npcs", s.withGame(s.meetNPC))
			r.Get("/npcs/{npcID}", s.withGame(s.getNPC))

			r.Post("/interactions", s.withGame(s.recordInteraction))
			r.Post("/promises", s.withGame(s.makePromise))
			r.Post("/promises/fulfill", s.withGame(s.fulfillPromise))
			r.Post("/secrets", s.withGame(s.shareSecret))
			r.Post("/favors", s.withGame(s.registerFavor))

			r.Get("/reputation", s.withGame(s.getReputation))
			r.Post("/reputation", s.withGame(s.applyFactionAction))
			r.Post("/attitude", s.withGame(s.attitude))

			r.Post("/dialogues", s.withGame(s.openDialogue))
			r.Get("/dialogues/{sessionID}", s.withGame(s.getDialogue))
			r.Delete("/dialogues/{sessionID}", s.withGame(s.endDialogue))
			r.Post("/dialogues/{sessionID}/choice", s.withGame(s.chooseResponse))
		})
	})

	return r
}
