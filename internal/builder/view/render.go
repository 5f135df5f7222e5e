// Package view renders a FormState as the survey builder's HTML form.
// The markup is a projection of the model; it is rebuilt on every request.
package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

// Page carries rendering inputs besides the form itself.
type Page struct {
	// Action is the URL the form posts to.
	Action string
	State  domain.FormState
}

type formView struct {
	Action      string
	Status      string
	Name        string
	Description string
	NameField   string
	DescField   string
	StatusField string
	Questions   []questionView
}

type questionView struct {
	ID           int
	Text         string
	TextField    string
	TypeField    string
	OptionsField string
	ShowOptions  bool
	Types        []typeView
	Options      []optionView
}

type typeView struct {
	Value    string
	Label    string
	Selected bool
}

type optionView struct {
	QuestionID  int
	Field       string
	Ref         string
	Label       string
	Position    int
	Placeholder string
}

var formTemplate = template.Must(template.New("builder").Parse(`<form id="survey-form" method="post" action="{{.Action}}">
  <input type="hidden" id="survey-status" name="{{.StatusField}}" value="{{.Status}}">
  <label for="survey_name">Survey Name:</label>
  <input type="text" id="survey_name" name="{{.NameField}}" value="{{.Name}}" required>
  <label for="description">Description:</label>
  <textarea id="description" name="{{.DescField}}">{{.Description}}</textarea>
  <div id="questions-container">
{{- range .Questions}}
    <div class="question" id="question-{{.ID}}" aria-label="Question {{.ID}}">
      <label for="question_{{.ID}}">Question {{.ID}}:</label>
      <input type="text" id="question_{{.ID}}" name="{{.TextField}}" value="{{.Text}}" placeholder="Enter your question" required>
      <label for="type_{{.ID}}">Type:</label>
      <select id="type_{{.ID}}" name="{{.TypeField}}" required>
{{- range .Types}}
        <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
      </select>
{{- if .ShowOptions}}
      <div id="options-container-{{.ID}}" class="options-container">
        <label>Options:</label>
{{- range .Options}}
        <div class="option-wrapper" data-option-ref="{{.Ref}}" aria-label="Option {{.Position}} for Question {{.QuestionID}}">
          <input type="text" class="option-input" name="{{.Field}}" value="{{.Label}}" placeholder="{{.Placeholder}}" required>
          <button type="button" class="remove-option-btn btn btn-danger" data-option-ref="{{.Ref}}" aria-label="Remove Option {{.Position}} for Question {{.QuestionID}}">Remove Option</button>
        </div>
{{- end}}
        <button type="button" class="add-option-btn btn btn-success" data-question-id="{{.ID}}">Add Option</button>
      </div>
{{- end}}
    </div>
{{- end}}
  </div>
  <button type="button" id="add-question-btn" class="btn btn-primary">Add Another Question</button>
  <button type="button" id="save-draft-btn" class="btn btn-secondary">Save as Draft</button>
  <button type="button" id="publish-btn" class="btn btn-success">Publish</button>
</form>
`))

// Render writes the builder form for page.State to w.
func Render(w io.Writer, page Page) error {
	if err := formTemplate.Execute(w, project(page)); err != nil {
		return fmt.Errorf("render builder form: %w", err)
	}
	return nil
}

// project は FormState から描画用の構造体を組み立てる。
// 選択肢の位置は毎回モデルの並び順から振り直すため、削除後も表示番号が崩れない。
func project(page Page) formView {
	state := page.State
	fv := formView{
		Action:      page.Action,
		Status:      state.Status.String(),
		Name:        state.Name,
		Description: state.Description,
		NameField:   domain.NameField,
		DescField:   domain.DescriptionField,
		StatusField: domain.StatusField,
		Questions:   make([]questionView, 0, len(state.Questions)),
	}
	for _, q := range state.Questions {
		qv := questionView{
			ID:           q.ID,
			Text:         q.Text,
			TextField:    domain.QuestionTextField(q.ID),
			TypeField:    domain.QuestionTypeField(q.ID),
			OptionsField: domain.QuestionOptionsField(q.ID),
			ShowOptions:  q.Type.RequiresOptions(),
		}
		for _, t := range domain.QuestionTypes {
			qv.Types = append(qv.Types, typeView{Value: t.String(), Label: t.Label(), Selected: t == q.Type})
		}
		for i, opt := range q.Options {
			qv.Options = append(qv.Options, optionView{
				QuestionID:  q.ID,
				Field:       qv.OptionsField,
				Ref:         opt.Ref,
				Label:       opt.Label,
				Position:    i + 1,
				Placeholder: domain.OptionPlaceholder(i + 1),
			})
		}
		fv.Questions = append(fv.Questions, qv)
	}
	return fv
}
