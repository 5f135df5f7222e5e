package application

import (
	"context"
	"net/url"

	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
)

// SurveyRepository exposes persistence for stored surveys.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]surveydomain.Survey, error)
	FindByID(ctx context.Context, id string) (*surveydomain.Survey, error)
	Create(ctx context.Context, survey *surveydomain.Survey) error
	// Update は保存済みステータスが from の場合のみ書き込み、競合時は ErrSurveyConflict を返す。
	Update(ctx context.Context, survey *surveydomain.Survey, from surveydomain.Status) error
}

// SurveyFilter expresses list criteria.
type SurveyFilter struct {
	CreatorID string
	Status    string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// SurveyService describes survey use-cases on the receiving side of the builder form.
type SurveyService interface {
	CreateFromForm(ctx context.Context, creatorID string, values url.Values) (*surveydomain.Survey, error)
	ReplaceFromForm(ctx context.Context, id, creatorID string, values url.Values) (*surveydomain.Survey, error)
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]surveydomain.Survey, error)
	Detail(ctx context.Context, id string) (*surveydomain.Survey, error)
	Publish(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error)
	Close(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error)
	Delete(ctx context.Context, id, creatorID string) error
}
