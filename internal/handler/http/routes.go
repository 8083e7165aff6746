package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withCORS)

	router.Get("/", h.health)
	router.Post("/init", h.initSchema)
	router.Get("/status/{domain}", h.backupStatus)
	router.Post("/backup", h.saveBackup)
	router.Get("/restore/{domain}", h.restoreBackup)
	router.Delete("/backup/{domain}", h.deleteBackup)

	return router
}
