package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

var (
	// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
	ErrSessionNotFound   = errors.New("builder session not found")
	ErrSurveyUnavailable = errors.New("survey not available for editing")
	ErrSurveyReadOnly    = errors.New("survey can no longer be edited")
)

type builderService struct {
	repo      SessionRepository
	submitter Submitter
	surveys   SurveySource
	validator *FormValidator
	logger    *zap.Logger
	locks     *sessionLocks
}

// NewBuilderService wires the session store and transport. surveys may be nil,
// in which case StartFromSurvey is unavailable.
func NewBuilderService(repo SessionRepository, submitter Submitter, surveys SurveySource, logger *zap.Logger) BuilderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &builderService{
		repo:      repo,
		submitter: submitter,
		surveys:   surveys,
		validator: NewFormValidator(),
		logger:    logger,
		locks:     newSessionLocks(),
	}
}

func (s *builderService) Start(ctx context.Context, owner string) (*Session, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	session := &Session{ID: uuid.NewString(), State: domain.NewFormState(owner)}
	if err := s.repo.Set(ctx, session.ID, session.State); err != nil {
		return nil, err
	}
	s.logger.Info("builder session started", zap.String("session_id", session.ID), zap.String("owner", owner))
	return session, nil
}

// StartFromSurvey は保存済みアンケートを読み戻して編集用セッションを開始する。
// 確定すると同じアンケートが上書きされる。
func (s *builderService) StartFromSurvey(ctx context.Context, owner, surveyID string) (*Session, error) {
	owner = strings.TrimSpace(owner)
	surveyID = strings.TrimSpace(surveyID)
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if s.surveys == nil {
		return nil, errors.New("no survey source configured")
	}
	if surveyID == "" {
		return nil, ErrSurveyUnavailable
	}
	state, err := s.surveys.LoadForm(ctx, surveyID, owner)
	if err != nil {
		return nil, err
	}
	session := &Session{ID: uuid.NewString(), State: state}
	if err := s.repo.Set(ctx, session.ID, session.State); err != nil {
		return nil, err
	}
	s.logger.Info("builder session started",
		zap.String("session_id", session.ID),
		zap.String("owner", owner),
		zap.String("survey_id", surveyID),
	)
	return session, nil
}

func (s *builderService) Get(ctx context.Context, id, owner string) (*Session, error) {
	state, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, State: state}, nil
}

// Apply は保存済みの FormState を読み込み、アクションを 1 件だけ適用して書き戻す。
// 同一セッションへの操作はロックで直列化する。確定に成功したセッションはストアから削除する。
func (s *builderService) Apply(ctx context.Context, id, owner string, action domain.Action, confirmer Confirmer) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	state, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	manager := NewFormStructureManager(&state, ManagerConfig{
		Confirmer: confirmer,
		Submitter: s.submitter,
		Validator: s.validator,
		Logger:    s.logger.With(zap.String("session_id", id)),
	})
	actionErr := manager.Dispatch(ctx, action)
	session := &Session{ID: id, State: state}

	if state.Phase.Terminal() {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Warn("finalized session cleanup failed", zap.String("session_id", id), zap.Error(err))
		}
		return session, actionErr
	}
	if actionErr != nil {
		if _, isFinalize := action.(domain.Finalize); !isFinalize {
			return session, actionErr
		}
	}
	if err := s.repo.Set(ctx, id, state); err != nil {
		return nil, err
	}
	return session, actionErr
}

func (s *builderService) load(ctx context.Context, id, owner string) (domain.FormState, error) {
	state, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.FormState{}, err
	}
	if !ok || state.Owner != owner {
		return domain.FormState{}, ErrSessionNotFound
	}
	return state, nil
}

// sessionLocks hands out one mutex per session id, dropped when no caller holds it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
