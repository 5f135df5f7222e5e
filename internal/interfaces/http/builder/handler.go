package builder

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
)

// Handler wires form-builder HTTP endpoints to the builder service.
type Handler struct {
	logger     *zap.Logger
	service    builderapp.BuilderService
	formAction string
}

// Config provides dependencies for Handler.
type Config struct {
	Logger  *zap.Logger
	Service builderapp.BuilderService
	// FormAction is the URL the rendered HTML form submits to.
	FormAction string
}

// NewHandler constructs a builder HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:     logger,
		service:    cfg.Service,
		formAction: cfg.FormAction,
	}
}

// Register mounts builder routes onto router. Every route expects an authenticated author.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.startHandler())
	r.Post("/surveys/{surveyID}/sessions", h.editSurveyHandler())
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.sessionHandler())
		r.Get("/form", h.formHandler())
		r.Patch("/", h.detailsHandler())
		r.Post("/questions", h.addQuestionHandler())
		r.Patch("/questions/{questionID}", h.updateQuestionHandler())
		r.Post("/questions/{questionID}/options", h.addOptionHandler())
		r.Patch("/options/{optionRef}", h.updateOptionHandler())
		r.Delete("/options/{optionRef}", h.removeOptionHandler())
		r.Post("/finalize", h.finalizeHandler())
	})
}
