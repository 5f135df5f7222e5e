package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
	"github.com/Sarojv04/TDS-Project/internal/survey/formcodec"
)

type surveyService struct {
	repo SurveyRepository
	now  func() time.Time
}

func NewSurveyService(repo SurveyRepository) SurveyService {
	return &surveyService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *surveyService) CreateFromForm(ctx context.Context, creatorID string, values url.Values) (*surveydomain.Survey, error) {
	if strings.TrimSpace(creatorID) == "" {
		return nil, errors.New("creator is required")
	}
	def, err := formcodec.Decode(values)
	if err != nil {
		return nil, err
	}
	survey := buildSurveyFromDefinition(creatorID, def)
	now := s.now()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// ReplaceFromForm は編集し直したフォームで保存済みアンケートを置き換える。
func (s *surveyService) ReplaceFromForm(ctx context.Context, id, creatorID string, values url.Values) (*surveydomain.Survey, error) {
	def, err := formcodec.Decode(values)
	if err != nil {
		return nil, err
	}
	revised := buildSurveyFromDefinition(creatorID, def)
	return s.transition(ctx, id, creatorID, func(survey *surveydomain.Survey, now time.Time) error {
		return survey.Revise(revised.Name, revised.Description, revised.Status, revised.Questions, now)
	})
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]surveydomain.Survey, error) {
	if filter.Status != "" {
		if _, err := surveydomain.NewStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	return s.repo.Find(ctx, filter, paging)
}

func (s *surveyService) Detail(ctx context.Context, id string) (*surveydomain.Survey, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *surveyService) Publish(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error) {
	return s.transition(ctx, id, creatorID, (*surveydomain.Survey).Publish)
}

func (s *surveyService) Close(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error) {
	return s.transition(ctx, id, creatorID, (*surveydomain.Survey).Close)
}

// Delete は作成者の下書きを論理削除する。以後一覧・詳細には現れない。
func (s *surveyService) Delete(ctx context.Context, id, creatorID string) error {
	_, err := s.transition(ctx, id, creatorID, (*surveydomain.Survey).Delete)
	return err
}

// transition は読み込んだ時点のステータスを条件に書き戻すため、並行した遷移はどちらか一方だけが成功する。
func (s *surveyService) transition(ctx context.Context, id, creatorID string, apply func(*surveydomain.Survey, time.Time) error) (*surveydomain.Survey, error) {
	survey, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatorID != creatorID {
		return nil, surveydomain.ErrSurveyNotFound
	}
	from := survey.Status
	if err := apply(survey, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, survey, from); err != nil {
		return nil, err
	}
	return survey, nil
}

func buildSurveyFromDefinition(creatorID string, def formcodec.Definition) *surveydomain.Survey {
	questions := make([]surveydomain.Question, 0, len(def.Questions))
	for i, q := range def.Questions {
		question := surveydomain.Question{
			Position: i + 1,
			Text:     q.Text,
			Type:     q.Type.String(),
		}
		for j, label := range q.Options {
			question.Options = append(question.Options, surveydomain.Option{Position: j + 1, Text: label})
		}
		questions = append(questions, question)
	}
	return &surveydomain.Survey{
		CreatorID:   creatorID,
		Name:        def.Name,
		Description: def.Description,
		Status:      surveydomain.Status(def.Status),
		Questions:   questions,
	}
}
