package builder

import (
	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

type sessionResponse struct {
	ID          string             `json:"id"`
	SurveyID    string             `json:"surveyId,omitempty"`
	Phase       string             `json:"phase"`
	Status      string             `json:"status,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Counter     int                `json:"counter"`
	Questions   []questionResponse `json:"questions"`
	Notice      string             `json:"notice,omitempty"`
}

type questionResponse struct {
	ID           int              `json:"id"`
	Text         string           `json:"text"`
	Type         string           `json:"type"`
	TextField    string           `json:"textField"`
	TypeField    string           `json:"typeField"`
	OptionsField string           `json:"optionsField"`
	Options      []optionResponse `json:"options"`
}

type optionResponse struct {
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	Position    int    `json:"position"`
	Placeholder string `json:"placeholder"`
}

type validationErrorResponse struct {
	Error   string          `json:"error"`
	Fields  []string        `json:"fields"`
	Session sessionResponse `json:"session"`
}

type updateDetailsRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type updateQuestionRequest struct {
	Text *string `json:"text"`
	Type *string `json:"type"`
}

type updateOptionRequest struct {
	Label string `json:"label"`
}

type finalizeRequest struct {
	Kind string `json:"kind"`
}

func toSessionResponse(session *builderapp.Session) sessionResponse {
	state := session.State
	resp := sessionResponse{
		ID:          session.ID,
		SurveyID:    state.SurveyID,
		Phase:       string(state.Phase),
		Status:      state.Status.String(),
		Name:        state.Name,
		Description: state.Description,
		Counter:     state.Counter,
		Questions:   make([]questionResponse, 0, len(state.Questions)),
	}
	for _, q := range state.Questions {
		qr := questionResponse{
			ID:           q.ID,
			Text:         q.Text,
			Type:         q.Type.String(),
			TextField:    domain.QuestionTextField(q.ID),
			TypeField:    domain.QuestionTypeField(q.ID),
			OptionsField: domain.QuestionOptionsField(q.ID),
			Options:      make([]optionResponse, 0, len(q.Options)),
		}
		for i, opt := range q.Options {
			qr.Options = append(qr.Options, optionResponse{
				Ref:         opt.Ref,
				Label:       opt.Label,
				Position:    i + 1,
				Placeholder: domain.OptionPlaceholder(i + 1),
			})
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}
