package domain

// Action is one author interaction. The set of variants is closed.
type Action interface {
	Name() string
	isAction()
}

// AddQuestion appends a new question with the next id.
type AddQuestion struct{}

// AddOption appends an option to QuestionID.
type AddOption struct {
	QuestionID int
}

// RemoveOption deletes the option identified by OptionRef after confirmation.
type RemoveOption struct {
	OptionRef string
}

// SetQuestionText, SetQuestionType, SetOptionLabel and SetDetails record what the author types.
type SetQuestionText struct {
	QuestionID int
	Text       string
}

type SetQuestionType struct {
	QuestionID int
	Type       QuestionType
}

type SetOptionLabel struct {
	OptionRef string
	Label     string
}

// SetDetails の nil フィールドは現在値を保持する。
type SetDetails struct {
	SurveyName  *string
	Description *string
}

// Finalize stamps Kind into the status field and submits the form.
type Finalize struct {
	Kind Status
}

func (AddQuestion) Name() string     { return "add_question" }
func (AddOption) Name() string       { return "add_option" }
func (RemoveOption) Name() string    { return "remove_option" }
func (SetQuestionText) Name() string { return "set_question_text" }
func (SetQuestionType) Name() string { return "set_question_type" }
func (SetOptionLabel) Name() string  { return "set_option_label" }
func (SetDetails) Name() string      { return "set_details" }
func (Finalize) Name() string        { return "finalize" }

func (AddQuestion) isAction()     {}
func (AddOption) isAction()       {}
func (RemoveOption) isAction()    {}
func (SetQuestionText) isAction() {}
func (SetQuestionType) isAction() {}
func (SetOptionLabel) isAction()  {}
func (SetDetails) isAction()      {}
func (Finalize) isAction()        {}
