package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
	"github.com/Sarojv04/TDS-Project/internal/survey/formcodec"
)

type memorySurveyRepo struct {
	surveys map[string]surveydomain.Survey
	// snapshot, when set, is what FindByID hands out instead of the stored copy.
	snapshot *surveydomain.Survey
	seq      int
}

func newMemorySurveyRepo() *memorySurveyRepo {
	return &memorySurveyRepo{surveys: map[string]surveydomain.Survey{}}
}

func (m *memorySurveyRepo) Find(_ context.Context, filter SurveyFilter, _ Paging) ([]surveydomain.Survey, error) {
	var out []surveydomain.Survey
	for _, s := range m.surveys {
		if s.Deleted {
			continue
		}
		if filter.Status != "" && s.Status.String() != filter.Status {
			continue
		}
		if filter.CreatorID != "" && s.CreatorID != filter.CreatorID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memorySurveyRepo) FindByID(_ context.Context, id string) (*surveydomain.Survey, error) {
	if m.snapshot != nil && m.snapshot.ID == id {
		s := *m.snapshot
		return &s, nil
	}
	s, ok := m.surveys[id]
	if !ok || s.Deleted {
		return nil, surveydomain.ErrSurveyNotFound
	}
	return &s, nil
}

func (m *memorySurveyRepo) Create(_ context.Context, s *surveydomain.Survey) error {
	m.seq++
	s.ID = fmt.Sprintf("s%d", m.seq)
	m.surveys[s.ID] = *s
	return nil
}

func (m *memorySurveyRepo) Update(_ context.Context, s *surveydomain.Survey, from surveydomain.Status) error {
	stored, ok := m.surveys[s.ID]
	if !ok || stored.Deleted || stored.Status != from {
		return surveydomain.ErrSurveyConflict
	}
	m.surveys[s.ID] = *s
	return nil
}

func draftForm() url.Values {
	return url.Values{
		"status":                  {"draft"},
		"survey_name":             {"Office survey"},
		"questions[1][text]":      {"Seat?"},
		"questions[1][type]":      {"single_choice"},
		"questions[1][options][]": {"Window", "Aisle"},
		"questions[2][text]":      {"Notes"},
		"questions[2][type]":      {"text"},
	}
}

func TestCreateFromForm(t *testing.T) {
	ctx := context.Background()
	svc := NewSurveyService(newMemorySurveyRepo())

	survey, err := svc.CreateFromForm(ctx, "author-1", draftForm())
	if err != nil {
		t.Fatalf("CreateFromForm: %v", err)
	}
	if survey.ID == "" || survey.Status != surveydomain.StatusDraft || survey.CreatorID != "author-1" {
		t.Fatalf("unexpected survey: %+v", survey)
	}
	if len(survey.Questions) != 2 {
		t.Fatalf("questions = %d", len(survey.Questions))
	}
	q := survey.Questions[0]
	if q.Position != 1 || len(q.Options) != 2 || q.Options[1].Position != 2 || q.Options[1].Text != "Aisle" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if survey.CreatedAt.IsZero() {
		t.Fatalf("timestamps not set")
	}

	bad := draftForm()
	bad.Del("survey_name")
	if _, err := svc.CreateFromForm(ctx, "author-1", bad); !errors.Is(err, formcodec.ErrMissingName) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.CreateFromForm(ctx, "", draftForm()); err == nil {
		t.Fatalf("creator is required")
	}
}

func TestPublishAndClose(t *testing.T) {
	ctx := context.Background()
	svc := NewSurveyService(newMemorySurveyRepo())
	survey, _ := svc.CreateFromForm(ctx, "author-1", draftForm())

	if _, err := svc.Close(ctx, survey.ID, "author-1"); !errors.Is(err, surveydomain.ErrInvalidTransition) {
		t.Fatalf("closing a draft must fail, got %v", err)
	}
	if _, err := svc.Publish(ctx, survey.ID, "author-2"); !errors.Is(err, surveydomain.ErrSurveyNotFound) {
		t.Fatalf("foreign creator must not see survey, got %v", err)
	}

	published, err := svc.Publish(ctx, survey.ID, "author-1")
	if err != nil || published.Status != surveydomain.StatusPublished {
		t.Fatalf("Publish: %v %+v", err, published)
	}
	if _, err := svc.Publish(ctx, survey.ID, "author-1"); !errors.Is(err, surveydomain.ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}
	closed, err := svc.Close(ctx, survey.ID, "author-1")
	if err != nil || closed.Status != surveydomain.StatusClosed {
		t.Fatalf("Close: %v %+v", err, closed)
	}

	list, err := svc.List(ctx, SurveyFilter{Status: "closed"}, Paging{})
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %v %d", err, len(list))
	}
	if _, err := svc.List(ctx, SurveyFilter{Status: "archived"}, Paging{}); err == nil {
		t.Fatalf("unknown status filter must fail")
	}
}

func TestTransitionFailsWhenStatusChangedSinceRead(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySurveyRepo()
	svc := NewSurveyService(repo)
	survey, _ := svc.CreateFromForm(ctx, "author-1", draftForm())
	stale := *survey

	if _, err := svc.Publish(ctx, survey.ID, "author-1"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := svc.Close(ctx, survey.ID, "author-1"); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// a publish that read the survey while it was still a draft
	repo.snapshot = &stale
	if _, err := svc.Publish(ctx, survey.ID, "author-1"); !errors.Is(err, surveydomain.ErrSurveyConflict) {
		t.Fatalf("want ErrSurveyConflict, got %v", err)
	}
	repo.snapshot = nil
	if got := repo.surveys[survey.ID].Status; got != surveydomain.StatusClosed {
		t.Fatalf("closed survey was overwritten, status = %q", got)
	}
}

func TestReplaceFromForm(t *testing.T) {
	ctx := context.Background()
	svc := NewSurveyService(newMemorySurveyRepo())
	survey, _ := svc.CreateFromForm(ctx, "author-1", draftForm())

	edited := url.Values{
		"status":                  {"published"},
		"survey_name":             {"Office survey 2"},
		"questions[1][text]":      {"Desk?"},
		"questions[1][type]":      {"multiple_choice"},
		"questions[1][options][]": {"Standing", "Sitting", "Both"},
	}
	if _, err := svc.ReplaceFromForm(ctx, survey.ID, "author-2", edited); !errors.Is(err, surveydomain.ErrSurveyNotFound) {
		t.Fatalf("foreign creator must not edit, got %v", err)
	}

	got, err := svc.ReplaceFromForm(ctx, survey.ID, "author-1", edited)
	if err != nil {
		t.Fatalf("ReplaceFromForm: %v", err)
	}
	if got.ID != survey.ID || got.Name != "Office survey 2" || got.Status != surveydomain.StatusPublished {
		t.Fatalf("unexpected survey: %+v", got)
	}
	if len(got.Questions) != 1 || len(got.Questions[0].Options) != 3 || !got.CreatedAt.Equal(survey.CreatedAt) {
		t.Fatalf("survey was not replaced in place: %+v", got)
	}
	if list, _ := svc.List(ctx, SurveyFilter{CreatorID: "author-1"}, Paging{}); len(list) != 1 {
		t.Fatalf("edit must not create a second survey, got %d", len(list))
	}

	if _, err := svc.Close(ctx, survey.ID, "author-1"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.ReplaceFromForm(ctx, survey.ID, "author-1", edited); !errors.Is(err, surveydomain.ErrInvalidTransition) {
		t.Fatalf("closed surveys are read-only, got %v", err)
	}

	bad := draftForm()
	bad.Del("questions[1][options][]")
	if _, err := svc.ReplaceFromForm(ctx, survey.ID, "author-1", bad); !errors.Is(err, formcodec.ErrMissingOptions) {
		t.Fatalf("got %v", err)
	}
}

func TestDeleteHidesDraft(t *testing.T) {
	ctx := context.Background()
	svc := NewSurveyService(newMemorySurveyRepo())
	draft, _ := svc.CreateFromForm(ctx, "author-1", draftForm())
	published, _ := svc.CreateFromForm(ctx, "author-1", draftForm())
	svc.Publish(ctx, published.ID, "author-1")

	if err := svc.Delete(ctx, draft.ID, "author-2"); !errors.Is(err, surveydomain.ErrSurveyNotFound) {
		t.Fatalf("foreign creator must not delete, got %v", err)
	}
	if err := svc.Delete(ctx, published.ID, "author-1"); !errors.Is(err, surveydomain.ErrInvalidTransition) {
		t.Fatalf("only drafts can be deleted, got %v", err)
	}
	if err := svc.Delete(ctx, draft.ID, "author-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Detail(ctx, draft.ID); !errors.Is(err, surveydomain.ErrSurveyNotFound) {
		t.Fatalf("deleted survey still visible: %v", err)
	}
	list, _ := svc.List(ctx, SurveyFilter{CreatorID: "author-1"}, Paging{})
	if len(list) != 1 || list[0].ID != published.ID {
		t.Fatalf("list = %+v", list)
	}
	if err := svc.Delete(ctx, draft.ID, "author-1"); !errors.Is(err, surveydomain.ErrSurveyNotFound) {
		t.Fatalf("second delete should not find the survey, got %v", err)
	}
}
