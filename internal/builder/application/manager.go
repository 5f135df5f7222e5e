package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
	"github.com/Sarojv04/TDS-Project/internal/survey/formcodec"
)

// RemoveOptionPrompt は選択肢削除の確認文言。
const RemoveOptionPrompt = "Are you sure you want to remove this option?"

// FormStructureManager は 1 つの FormState に対する構造変更と確定操作を仲介する。
// ゴルーチンセーフではないため、呼び出し側で同一フォームへの操作を直列化すること。
type FormStructureManager struct {
	state     *domain.FormState
	confirmer Confirmer
	submitter Submitter
	validator *FormValidator
	logger    *zap.Logger
}

// ManagerConfig provides collaborators for FormStructureManager.
type ManagerConfig struct {
	Confirmer Confirmer
	Submitter Submitter
	Validator *FormValidator
	Logger    *zap.Logger
}

func NewFormStructureManager(state *domain.FormState, cfg ManagerConfig) *FormStructureManager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validator := cfg.Validator
	if validator == nil {
		validator = NewFormValidator()
	}
	confirmer := cfg.Confirmer
	if confirmer == nil {
		confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	}
	return &FormStructureManager{
		state:     state,
		confirmer: confirmer,
		submitter: cfg.Submitter,
		validator: validator,
		logger:    logger,
	}
}

// State returns the managed form.
func (m *FormStructureManager) State() *domain.FormState {
	return m.state
}

// Dispatch routes action to its operation. Failures are logged here and returned;
// no operation mutates state before its checks pass.
func (m *FormStructureManager) Dispatch(ctx context.Context, action domain.Action) error {
	var err error
	switch a := action.(type) {
	case domain.AddQuestion:
		_, err = m.AddQuestion(ctx)
	case domain.AddOption:
		_, _, err = m.AddOption(ctx, a.QuestionID)
	case domain.RemoveOption:
		err = m.RemoveOption(ctx, a.OptionRef)
	case domain.SetQuestionText:
		err = m.edit(func() error { return m.state.SetQuestionText(a.QuestionID, a.Text) })
	case domain.SetQuestionType:
		err = m.edit(func() error {
			t, err := domain.NewQuestionType(a.Type.String())
			if err != nil {
				return err
			}
			return m.state.SetQuestionType(a.QuestionID, t)
		})
	case domain.SetOptionLabel:
		err = m.edit(func() error { return m.state.SetOptionLabel(a.OptionRef, a.Label) })
	case domain.SetDetails:
		err = m.edit(func() error {
			if a.SurveyName != nil {
				m.state.Name = *a.SurveyName
			}
			if a.Description != nil {
				m.state.Description = *a.Description
			}
			return nil
		})
	case domain.Finalize:
		err = m.Finalize(ctx, a.Kind)
	default:
		err = fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, domain.ErrRemovalDeclined) {
		m.logger.Warn("form action failed",
			zap.String("action", actionName(action)),
			zap.Error(err),
		)
	}
	return err
}

// AddQuestion appends a question with the next id and one seeded option.
func (m *FormStructureManager) AddQuestion(_ context.Context) (domain.Question, error) {
	if err := m.state.Editable(); err != nil {
		return domain.Question{}, err
	}
	q := m.state.AppendQuestion()
	m.logger.Debug("question added", zap.Int("question_id", q.ID))
	return q, nil
}

// AddOption appends an option to questionID and returns it with its 1-based position.
func (m *FormStructureManager) AddOption(_ context.Context, questionID int) (domain.Option, int, error) {
	if err := m.state.Editable(); err != nil {
		return domain.Option{}, 0, err
	}
	opt, position, err := m.state.AppendOption(questionID)
	if err != nil {
		return domain.Option{}, 0, err
	}
	m.logger.Debug("option added",
		zap.Int("question_id", questionID),
		zap.Int("position", position),
	)
	return opt, position, nil
}

// RemoveOption asks the confirmer before removing and leaves state untouched when the author declines.
// The last option of a question is refused without prompting.
func (m *FormStructureManager) RemoveOption(ctx context.Context, optionRef string) error {
	if err := m.state.Editable(); err != nil {
		return err
	}
	q, _, ok := m.state.LocateOption(optionRef)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOptionNotFound, optionRef)
	}
	if len(q.Options) == 1 {
		return fmt.Errorf("%w: question %d", domain.ErrLastOption, q.ID)
	}
	if !m.confirmer.Confirm(ctx, RemoveOptionPrompt) {
		m.logger.Debug("option removal declined", zap.String("option_ref", optionRef))
		return domain.ErrRemovalDeclined
	}
	questionID, err := m.state.RemoveOption(optionRef)
	if err != nil {
		return err
	}
	m.logger.Debug("option removed",
		zap.Int("question_id", questionID),
		zap.String("option_ref", optionRef),
	)
	return nil
}

// Finalize stamps kind into the status field, validates every required field and
// hands the encoded form to the submitter once. A validation failure keeps the form editable.
func (m *FormStructureManager) Finalize(ctx context.Context, kind domain.Status) error {
	if err := m.state.Editable(); err != nil {
		return err
	}
	status, err := domain.NewStatus(kind.String())
	if err != nil {
		return err
	}
	if m.submitter == nil {
		return errors.New("no submitter configured")
	}

	m.state.Status = status
	if err := m.validator.Validate(*m.state); err != nil {
		return err
	}

	m.state.Phase = domain.PhaseSubmitting
	pairs := formcodec.Pairs(*m.state)
	m.logger.Info("survey form submitted",
		zap.String("status", status.String()),
		zap.Int("questions", len(m.state.Questions)),
	)
	for _, p := range pairs {
		m.logger.Debug("form field", zap.String("key", p.Key), zap.String("value", p.Value))
	}

	submission := Submission{
		Owner:    m.state.Owner,
		SurveyID: m.state.SurveyID,
		Values:   formcodec.Encode(*m.state),
	}
	if err := m.submitter.Submit(ctx, submission); err != nil {
		m.state.Phase = domain.PhaseEditing
		return fmt.Errorf("submit survey form: %w", err)
	}

	if status == domain.StatusPublished {
		m.state.Phase = domain.PhasePublished
		m.logger.Info("survey published")
	} else {
		m.state.Phase = domain.PhaseDraftSaved
		m.logger.Info("survey saved as draft")
	}
	return nil
}

func (m *FormStructureManager) edit(apply func() error) error {
	if err := m.state.Editable(); err != nil {
		return err
	}
	return apply()
}

func actionName(action domain.Action) string {
	if action == nil {
		return "<nil>"
	}
	return action.Name()
}
