package application

import (
	"context"
	"net/url"

	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

// Confirmer asks the author to confirm a destructive step.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that always answers ok.
func Answer(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return ok })
}

// Submission is the finalized form handed to the transport.
// SurveyID is set when the form re-saves a stored survey instead of creating one.
type Submission struct {
	Owner    string
	SurveyID string
	Values   url.Values
}

// Submitter delivers a finalized form to the survey endpoint.
type Submitter interface {
	Submit(ctx context.Context, submission Submission) error
}

// SurveySource loads a stored survey back into an editable form.
// It returns ErrSurveyUnavailable for unknown, deleted or foreign surveys and
// ErrSurveyReadOnly for surveys that can no longer be edited.
type SurveySource interface {
	LoadForm(ctx context.Context, surveyID, owner string) (domain.FormState, error)
}

// SessionRepository persists in-progress forms between author actions.
type SessionRepository interface {
	Get(ctx context.Context, id string) (domain.FormState, bool, error)
	Set(ctx context.Context, id string, state domain.FormState) error
	Delete(ctx context.Context, id string) error
}

// Session is an author's in-progress form.
type Session struct {
	ID    string
	State domain.FormState
}

// BuilderService describes form-builder use-cases.
type BuilderService interface {
	Start(ctx context.Context, owner string) (*Session, error)
	StartFromSurvey(ctx context.Context, owner, surveyID string) (*Session, error)
	Get(ctx context.Context, id, owner string) (*Session, error)
	Apply(ctx context.Context, id, owner string, action domain.Action, confirmer Confirmer) (*Session, error)
}
