package survey

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
)

// Handler exposes the survey endpoint that receives builder forms, plus read and lifecycle APIs.
type Handler struct {
	logger  *zap.Logger
	surveys surveyapp.SurveyService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger  *zap.Logger
	Surveys surveyapp.SurveyService
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger, surveys: cfg.Surveys}
}

// Register は公開 API と認証付き API をまとめて登録する。
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/surveys", h.listHandler())
	r.Get("/surveys/{id}", h.detailHandler())
	r.With(authMiddleware).Post("/surveys", h.createHandler())
	r.With(authMiddleware).Put("/surveys/{id}", h.replaceHandler())
	r.With(authMiddleware).Post("/surveys/{id}/publish", h.publishHandler())
	r.With(authMiddleware).Post("/surveys/{id}/close", h.closeHandler())
	r.With(authMiddleware).Get("/me/surveys", h.myListHandler())
	r.With(authMiddleware).Get("/me/surveys/{id}", h.myDetailHandler())
	r.With(authMiddleware).Delete("/me/surveys/{id}", h.deleteHandler())
}
