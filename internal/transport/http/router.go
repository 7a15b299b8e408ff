package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"techquiz-service/internal/app"
	"techquiz-service/internal/auth"
)

// Handler bundles the services the JSON API serves.
type Handler struct {
	quizzes      *app.QuizService
	results      *app.ResultService
	leaderboards *app.LeaderboardService
	users        *app.UserService
	hub          *app.LeaderboardHub
	log          *slog.Logger
}

func NewHandler(quizzes *app.QuizService, results *app.ResultService, leaderboards *app.LeaderboardService, users *app.UserService, hub *app.LeaderboardHub, log *slog.Logger) *Handler {
	return &Handler{
		quizzes:      quizzes,
		results:      results,
		leaderboards: leaderboards,
		users:        users,
		hub:          hub,
		log:          log,
	}
}

// Router mounts the full API.
func (h *Handler) Router(authSvc *auth.Service, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", h.register)
		r.Post("/users/login", h.login)
		r.With(auth.Required(authSvc)).Get("/users/me", h.profile)

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", h.listQuizzes)
			r.With(auth.Optional(authSvc)).Post("/", h.createQuiz)
			r.Get("/{quizID}", h.getQuiz)
			r.Get("/{quizID}/meta", h.quizMeta)
			r.With(auth.Optional(authSvc)).Post("/{quizID}/submit", h.submitQuiz)
			r.With(auth.Required(authSvc)).Put("/{quizID}", h.updateQuiz)
			r.With(auth.Required(authSvc)).Delete("/{quizID}", h.deleteQuiz)
		})

		r.Route("/results", func(r chi.Router) {
			r.Use(auth.Required(authSvc))
			r.Post("/", h.recordResult)
			r.Get("/", h.listResults)
			r.Get("/stats", h.userStats)
			r.Get("/{resultID}", h.getResult)
			r.Delete("/{resultID}", h.deleteResult)
		})

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/global", h.globalLeaderboard)
			r.Get("/quiz/{quizID}", h.quizLeaderboard)
			r.Get("/quiz/{quizID}/stats", h.quizStats)
			r.Get("/technology/{technology}", h.technologyLeaderboard)
		})
	})

	r.Get("/ws/leaderboard", h.serveLeaderboardWS)

	return r
}
