package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/config"
	"github.com/Sarojv04/TDS-Project/internal/infrastructure/formpost"
	"github.com/Sarojv04/TDS-Project/internal/infrastructure/sessionstore"
	commonhttp "github.com/Sarojv04/TDS-Project/internal/interfaces/http/common"
	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
)

const (
	testIssuer = "survey-master-auth"
	testSecret = "current-secret"
	prevSecret = "previous-secret"
)

type nopSubmitter struct{}

func (nopSubmitter) Submit(context.Context, builderapp.Submission) error { return nil }

// emptySurveys is a survey service with nothing stored.
type emptySurveys struct{}

func (emptySurveys) CreateFromForm(_ context.Context, creatorID string, _ url.Values) (*surveydomain.Survey, error) {
	return &surveydomain.Survey{ID: "s1", CreatorID: creatorID, Status: surveydomain.StatusDraft}, nil
}

func (emptySurveys) ReplaceFromForm(context.Context, string, string, url.Values) (*surveydomain.Survey, error) {
	return nil, surveydomain.ErrSurveyNotFound
}

func (emptySurveys) List(context.Context, surveyapp.SurveyFilter, surveyapp.Paging) ([]surveydomain.Survey, error) {
	return nil, nil
}

func (emptySurveys) Detail(context.Context, string) (*surveydomain.Survey, error) {
	return nil, surveydomain.ErrSurveyNotFound
}

func (emptySurveys) Publish(context.Context, string, string) (*surveydomain.Survey, error) {
	return nil, surveydomain.ErrSurveyNotFound
}

func (emptySurveys) Close(context.Context, string, string) (*surveydomain.Survey, error) {
	return nil, surveydomain.ErrSurveyNotFound
}

func (emptySurveys) Delete(context.Context, string, string) error {
	return surveydomain.ErrSurveyNotFound
}

func newTestServer() *Server {
	return &Server{
		logger:         zap.NewNop(),
		builderService: builderapp.NewBuilderService(sessionstore.NewMemoryRepository(time.Hour), nopSubmitter{}, formpost.NewSurveySource(emptySurveys{}), nil),
		surveyService:  emptySurveys{},
		jwtConfigs: []config.JWTConfig{
			{Issuer: testIssuer, Secret: []byte(testSecret)},
			{Issuer: testIssuer, Secret: []byte(prevSecret)},
		},
		formAction:     "/surveys",
		allowedOrigins: []string{"https://builder.example.com"},
	}
}

func signToken(t *testing.T, secret string, mutate func(*authClaims)) string {
	t.Helper()
	claims := &authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "author-1",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Author One",
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestParseAuthToken(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"current secret", signToken(t, testSecret, nil), false},
		{"previous secret", signToken(t, prevSecret, nil), false},
		{"unknown secret", signToken(t, "other", nil), true},
		{"wrong issuer", signToken(t, testSecret, func(c *authClaims) { c.Issuer = "someone" }), true},
		{"missing subject", signToken(t, testSecret, func(c *authClaims) { c.Subject = "" }), true},
		{"expired", signToken(t, testSecret, func(c *authClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		}), true},
		{"garbage", "not-a-token", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := s.parseAuthToken(tc.token)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.Subject != "author-1" {
				t.Fatalf("subject = %q", claims.Subject)
			}
		})
	}
}

func TestParseAuthTokenAudience(t *testing.T) {
	s := newTestServer()
	s.jwtAudience = "survey-master"

	if _, err := s.parseAuthToken(signToken(t, testSecret, nil)); err == nil {
		t.Fatalf("token without audience should be rejected")
	}
	token := signToken(t, testSecret, func(c *authClaims) { c.Audience = jwt.ClaimStrings{"survey-master"} })
	if _, err := s.parseAuthToken(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer()
	var got commonhttp.AuthenticatedUser
	handler := s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = commonhttp.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for name, header := range map[string]string{
		"missing": "",
		"basic":   "Basic abc",
		"empty":   "Bearer ",
		"invalid": "Bearer nope",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got.ID != "author-1" || got.Name != "Author One" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestAuthMiddlewareKeepsAuthorToken(t *testing.T) {
	s := newTestServer()
	token := signToken(t, testSecret, nil)
	var forwarded string
	handler := s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded, _ = formpost.AuthorToken(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if forwarded != token {
		t.Fatalf("author token not kept for submission")
	}
}

func TestWithCORS(t *testing.T) {
	handler := withCORS([]string{"https://builder.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/builder/sessions", nil)
	req.Header.Set("Origin", "https://builder.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://builder.example.com" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin should not be echoed")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouterProtectsBuilder(t *testing.T) {
	router := newTestServer().Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/builder/sessions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/builder/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouterServesSurveyRoutes(t *testing.T) {
	router := newTestServer().Router()
	token := signToken(t, testSecret, nil)

	cases := []struct {
		method, path string
		auth         bool
		want         int
	}{
		{http.MethodGet, "/surveys/missing", false, http.StatusNotFound},
		{http.MethodPost, "/surveys/missing/publish", false, http.StatusUnauthorized},
		{http.MethodPost, "/surveys/missing/publish", true, http.StatusNotFound},
		{http.MethodDelete, "/me/surveys/missing", true, http.StatusNotFound},
		{http.MethodPost, "/builder/surveys/missing/sessions", true, http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.auth {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: status = %d, want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestNormaliseBaseURL(t *testing.T) {
	if got := normaliseBaseURL("  http://surveys.local/api/ "); got != "http://surveys.local/api" {
		t.Fatalf("got %q", got)
	}
}
