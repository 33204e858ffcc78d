package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/room", func(r chi.Router) {
			r.Post("/create", c.createRoom)
			r.Route("/{room-id}", func(r chi.Router) {
				r.Post("/join", c.joinRoom)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(c.sessionMw)

			r.Get("/ws", c.attachWS)

			r.Route("/playlist", func(r chi.Router) {
				r.Post("/add", c.addPlaylistItem)
				r.Get("/query", c.queryPlaylist)
				r.Delete("/delete", c.deletePlaylistItem)
				r.Delete("/clear", c.clearPlaylist)
				r.Post("/reorder", c.reorderPlaylist)
				r.Post("/switch", c.switchVideo)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Post("/update-time", c.updatePlayerTime)
				r.Get("/query", c.queryPlayerStatus)
				r.Post("/update-pause", c.updatePlayerPause)
			})
		})
	})

	return r
}
