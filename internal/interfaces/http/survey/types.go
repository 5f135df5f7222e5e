package survey

import (
	"time"

	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
)

type surveyResponse struct {
	ID          string             `json:"id"`
	CreatorID   string             `json:"creatorId"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Questions   []questionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type questionResponse struct {
	Position int              `json:"position"`
	Text     string           `json:"text"`
	Type     string           `json:"type"`
	Options  []optionResponse `json:"options,omitempty"`
}

type optionResponse struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

type surveyListResponse struct {
	Items []surveyResponse `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func toSurveyResponse(s surveydomain.Survey) surveyResponse {
	resp := surveyResponse{
		ID:          s.ID,
		CreatorID:   s.CreatorID,
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status.String(),
		Questions:   make([]questionResponse, 0, len(s.Questions)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, q := range s.Questions {
		qr := questionResponse{Position: q.Position, Text: q.Text, Type: q.Type}
		for _, opt := range q.Options {
			qr.Options = append(qr.Options, optionResponse{Position: opt.Position, Text: opt.Text})
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}

func toSurveyListResponse(items []surveydomain.Survey, page, limit int) surveyListResponse {
	resp := surveyListResponse{Items: make([]surveyResponse, 0, len(items)), Page: page, Limit: limit}
	for _, s := range items {
		resp.Items = append(resp.Items, toSurveyResponse(s))
	}
	return resp
}
