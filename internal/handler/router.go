package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatfood/chatfood/internal/handler/assistant"
	middlewarePkg "github.com/chatfood/chatfood/internal/middleware"
	sessionService "github.com/chatfood/chatfood/internal/service/session"
)

// NewRouter wires HTTP routes to the session coordinator.
func NewRouter(sessionSvc *sessionService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	assistantHandler := assistant.New(sessionSvc)
	wsHandler := assistant.NewWebSocketHandler(sessionSvc)

	r.Route("/api", func(api chi.Router) {
		assistantHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
