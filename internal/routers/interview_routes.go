package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sithumSoft/MockMate/internal/handlers"
	"github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/models"
)

// Auth resolves the caller before any API handler runs.
type Auth func(http.Handler) http.Handler

func InterviewRoutes(router *chi.Mux, auth Auth, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(auth)
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/", interviewHandler.StartHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/current", interviewHandler.CurrentHandler)

		r.Get("/{id}", interviewHandler.GetHandler)
		r.Delete("/{id}", interviewHandler.DeleteHandler)
		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/{id}/answers", interviewHandler.AnswerHandler)
		r.Post("/{id}/next", interviewHandler.NextHandler)
		r.Post("/{id}/finish", interviewHandler.FinishHandler)
		r.Post("/{id}/reset", interviewHandler.ResetHandler)
		r.Get("/{id}/report", interviewHandler.ReportHandler)
		r.Get("/{id}/questions/{questionID}/evaluation", interviewHandler.EvaluationHandler)
	})
}

func AnalyticsRoutes(router *chi.Mux, auth Auth, analyticsHandler *handlers.AnalyticsHandler) {
	router.With(auth).Get("/api/v1/analytics", analyticsHandler.AnalyticsHandler)
}

func ChatRoutes(router *chi.Mux, auth Auth, chatHandler *handlers.ChatHandler) {
	router.With(auth, middleware.ValidateRequest[*models.ChatRequest]()).Post("/api/v1/chat", chatHandler.ChatHandler)
}
