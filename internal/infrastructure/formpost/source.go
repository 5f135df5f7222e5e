package formpost

import (
	"context"
	"errors"
	"fmt"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
)

// SurveySource reads stored surveys back into the builder through the survey service.
type SurveySource struct {
	surveys surveyapp.SurveyService
}

var _ builderapp.SurveySource = (*SurveySource)(nil)

func NewSurveySource(surveys surveyapp.SurveyService) *SurveySource {
	return &SurveySource{surveys: surveys}
}

// LoadForm は作成者本人の下書き・公開中アンケートのみ編集用に返す。受付終了済みは編集できない。
func (s *SurveySource) LoadForm(ctx context.Context, surveyID, owner string) (domain.FormState, error) {
	survey, err := s.surveys.Detail(ctx, surveyID)
	if err != nil {
		if errors.Is(err, surveydomain.ErrSurveyNotFound) {
			return domain.FormState{}, builderapp.ErrSurveyUnavailable
		}
		return domain.FormState{}, err
	}
	if survey.CreatorID != owner {
		return domain.FormState{}, builderapp.ErrSurveyUnavailable
	}
	status, err := domain.NewStatus(survey.Status.String())
	if err != nil {
		return domain.FormState{}, fmt.Errorf("%w: survey is %s", builderapp.ErrSurveyReadOnly, survey.Status)
	}

	questions := make([]domain.StoredQuestion, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		qType, err := domain.NewQuestionType(q.Type)
		if err != nil {
			return domain.FormState{}, fmt.Errorf("survey %s question %d: %w", survey.ID, q.Position, err)
		}
		stored := domain.StoredQuestion{ID: q.Position, Text: q.Text, Type: qType}
		for _, opt := range q.Options {
			stored.Labels = append(stored.Labels, opt.Text)
		}
		questions = append(questions, stored)
	}
	return domain.RestoreFormState(owner, survey.ID, survey.Name, survey.Description, status, questions), nil
}
