// Package formpost delivers finalized builder forms to the survey endpoint.
package formpost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
)

// OwnerHeader carries the author id alongside the submitted form.
const OwnerHeader = "X-Survey-Owner"

// LocalSubmitter hands the encoded form to the in-process survey service,
// through the same decoding path POST /surveys uses.
type LocalSubmitter struct {
	surveys surveyapp.SurveyService
	logger  *zap.Logger
}

var _ builderapp.Submitter = (*LocalSubmitter)(nil)

func NewLocalSubmitter(surveys surveyapp.SurveyService, logger *zap.Logger) *LocalSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalSubmitter{surveys: surveys, logger: logger}
}

func (s *LocalSubmitter) Submit(ctx context.Context, submission builderapp.Submission) error {
	var (
		survey *surveydomain.Survey
		err    error
	)
	if submission.SurveyID != "" {
		survey, err = s.surveys.ReplaceFromForm(ctx, submission.SurveyID, submission.Owner, submission.Values)
	} else {
		survey, err = s.surveys.CreateFromForm(ctx, submission.Owner, submission.Values)
	}
	if err != nil {
		return err
	}
	s.logger.Info("survey stored", zap.String("survey_id", survey.ID), zap.String("status", survey.Status.String()))
	return nil
}

// ErrNoCredential is returned when neither the author's token nor a service token is available.
var ErrNoCredential = errors.New("no bearer token for survey endpoint")

type authorTokenKey struct{}

// ContextWithAuthorToken は作成者自身のアクセストークンを送信用にコンテキストへ詰める。
func ContextWithAuthorToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authorTokenKey{}, token)
}

// AuthorToken returns the token stored by ContextWithAuthorToken.
func AuthorToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(authorTokenKey{}).(string)
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// HTTPSubmitter POSTs the form as application/x-www-form-urlencoded, like a native form submission.
// Edits of a stored survey are PUT to <endpoint>/<survey id>. The author's own token is forwarded
// so the endpoint stores the survey under the author; the configured token is only a fallback.
// The owner is also sent in X-Survey-Owner, and the endpoint refuses a token that does not match it.
type HTTPSubmitter struct {
	client   *http.Client
	endpoint string
	token    string
}

var _ builderapp.Submitter = (*HTTPSubmitter)(nil)

// NewHTTPSubmitter は送信先 URL と、設定されていればフォールバック用の Bearer トークンを束縛した Submitter を返す。
func NewHTTPSubmitter(client *http.Client, endpoint, token string) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{
		client:   client,
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		token:    strings.TrimSpace(token),
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, submission builderapp.Submission) error {
	token, ok := AuthorToken(ctx)
	if !ok {
		token = s.token
	}
	if token == "" {
		return ErrNoCredential
	}

	method, target := http.MethodPost, s.endpoint
	if submission.SurveyID != "" {
		method, target = http.MethodPut, s.endpoint+"/"+url.PathEscape(submission.SurveyID)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(submission.Values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	if submission.Owner != "" {
		req.Header.Set(OwnerHeader, submission.Owner)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("survey endpoint responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
