package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// InitialQuestionID は初期マークアップに最初から存在する設問の ID。
// AddQuestion で生成される最初の設問は 2 になる。
const InitialQuestionID = 1

// QuestionType is the response type an author picks for a question.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeText           QuestionType = "text"
)

// QuestionTypes lists the selector entries in markup order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeSingleChoice,
	QuestionTypeText,
}

func NewQuestionType(value string) (QuestionType, error) {
	trimmed := strings.TrimSpace(value)
	for _, t := range QuestionTypes {
		if string(t) == trimmed {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuestionType, value)
}

// RequiresOptions reports whether answers are chosen from an option list.
func (t QuestionType) RequiresOptions() bool {
	return t != QuestionTypeText
}

// Label は選択肢の表示名を返す。
func (t QuestionType) Label() string {
	switch t {
	case QuestionTypeMultipleChoice:
		return "Multiple Choice (Multiple Answers)"
	case QuestionTypeSingleChoice:
		return "Single Choice"
	case QuestionTypeText:
		return "Text Response"
	}
	return string(t)
}

func (t QuestionType) String() string {
	return string(t)
}

// Status is the terminal kind stamped into the status field at submission time.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func NewStatus(value string) (Status, error) {
	switch Status(strings.TrimSpace(value)) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

func (s Status) String() string {
	return string(s)
}

// Phase tracks where a FormState sits in the Editing → Submitting → terminal lifecycle.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseDraftSaved Phase = "draft_saved"
	PhasePublished  Phase = "published"
)

// Terminal reports whether no further mutation is accepted.
func (p Phase) Terminal() bool {
	return p == PhaseDraftSaved || p == PhasePublished
}

// Option is one answer choice. Ref identifies the option independently of its position.
type Option struct {
	Ref   string `json:"ref"`
	Label string `json:"label"`
}

// Question は設問 1 件分のモデル。ID は生成順に採番され再利用されない。
type Question struct {
	ID      int          `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options"`
}

// OptionPosition returns the 1-based position of ref, or 0 when absent.
func (q Question) OptionPosition(ref string) int {
	for i, opt := range q.Options {
		if opt.Ref == ref {
			return i + 1
		}
	}
	return 0
}

// FormState は編集中のアンケート全体を表す値オブジェクト。
// 設問カウンタもここに保持し、プロセス全体で共有する状態を持たない。
// SurveyID は保存済みアンケートを編集している場合のみ設定される。
type FormState struct {
	Owner       string     `json:"owner"`
	SurveyID    string     `json:"surveyId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Counter     int        `json:"counter"`
	Questions   []Question `json:"questions"`
	Status      Status     `json:"status,omitempty"`
	Phase       Phase      `json:"phase"`
}

// NewFormState returns the state of a freshly loaded builder page:
// question 1 with a single "Option 1".
func NewFormState(owner string) FormState {
	return FormState{
		Owner:     owner,
		Counter:   InitialQuestionID,
		Questions: []Question{newQuestion(InitialQuestionID)},
		Phase:     PhaseEditing,
	}
}

// StoredQuestion is a saved question read back into the builder. ID is its stored position.
type StoredQuestion struct {
	ID     int
	Text   string
	Type   QuestionType
	Labels []string
}

// RestoreFormState rebuilds an editable form for a stored survey. Question ids come from
// the stored positions and the counter resumes after the highest of them, so questions
// added while editing never reuse a saved id.
func RestoreFormState(owner, surveyID, name, description string, status Status, questions []StoredQuestion) FormState {
	state := FormState{
		Owner:       owner,
		SurveyID:    surveyID,
		Name:        name,
		Description: description,
		Status:      status,
		Phase:       PhaseEditing,
	}
	for _, stored := range questions {
		q := Question{ID: stored.ID, Text: stored.Text, Type: stored.Type}
		for _, label := range stored.Labels {
			q.Options = append(q.Options, Option{Ref: uuid.NewString(), Label: label})
		}
		// text questions still carry the hidden placeholder option
		if len(q.Options) == 0 {
			q.Options = []Option{newOption()}
		}
		state.Questions = append(state.Questions, q)
		if q.ID > state.Counter {
			state.Counter = q.ID
		}
	}
	if len(state.Questions) == 0 {
		state.Counter = InitialQuestionID
		state.Questions = []Question{newQuestion(InitialQuestionID)}
	}
	return state
}

func newQuestion(id int) Question {
	return Question{
		ID:      id,
		Type:    QuestionTypeMultipleChoice,
		Options: []Option{newOption()},
	}
}

func newOption() Option {
	return Option{Ref: uuid.NewString()}
}

// Editable returns ErrFormClosed once a terminal action has completed.
func (f *FormState) Editable() error {
	if f.Phase.Terminal() {
		return ErrFormClosed
	}
	if f.Phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	return nil
}

// AppendQuestion advances the counter and appends a question seeded with one option.
func (f *FormState) AppendQuestion() Question {
	f.Counter++
	q := newQuestion(f.Counter)
	f.Questions = append(f.Questions, q)
	return q
}

// Question returns the question with id.
func (f *FormState) Question(id int) (*Question, bool) {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i], true
		}
	}
	return nil, false
}

// AppendOption adds an option to the end of question id and returns it with its position.
func (f *FormState) AppendOption(questionID int) (Option, int, error) {
	q, ok := f.Question(questionID)
	if !ok {
		return Option{}, 0, fmt.Errorf("%w: question %d", ErrQuestionNotFound, questionID)
	}
	position := len(q.Options) + 1
	opt := newOption()
	q.Options = append(q.Options, opt)
	return opt, position, nil
}

// LocateOption resolves ref to its owning question and index.
func (f *FormState) LocateOption(ref string) (*Question, int, bool) {
	for qi := range f.Questions {
		for oi, opt := range f.Questions[qi].Options {
			if opt.Ref == ref {
				return &f.Questions[qi], oi, true
			}
		}
	}
	return nil, 0, false
}

// RemoveOption deletes the option identified by ref. A question's only option cannot be removed.
func (f *FormState) RemoveOption(ref string) (int, error) {
	q, idx, ok := f.LocateOption(ref)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrOptionNotFound, ref)
	}
	if len(q.Options) == 1 {
		return q.ID, fmt.Errorf("%w: question %d", ErrLastOption, q.ID)
	}
	q.Options = append(q.Options[:idx], q.Options[idx+1:]...)
	return q.ID, nil
}

// SetQuestionText overwrites the text of question id.
func (f *FormState) SetQuestionText(questionID int, text string) error {
	q, ok := f.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: question %d", ErrQuestionNotFound, questionID)
	}
	q.Text = text
	return nil
}

// SetQuestionType changes the response type. Options are kept so switching back restores them.
func (f *FormState) SetQuestionType(questionID int, t QuestionType) error {
	q, ok := f.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: question %d", ErrQuestionNotFound, questionID)
	}
	q.Type = t
	return nil
}

// SetOptionLabel overwrites the label of the option identified by ref.
func (f *FormState) SetOptionLabel(ref, label string) error {
	q, idx, ok := f.LocateOption(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, ref)
	}
	q.Options[idx].Label = label
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing stored slices.
func (f FormState) Clone() FormState {
	out := f
	out.Questions = make([]Question, len(f.Questions))
	for i, q := range f.Questions {
		q.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
