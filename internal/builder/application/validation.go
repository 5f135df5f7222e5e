package application

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

// FormValidator checks every required field before a submission is allowed to reach the transport.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{validate: validator.New()}
}

// Validate returns a *domain.ValidationError naming each empty required field.
// Values are trimmed first, since the survey endpoint discards whitespace-only input.
// Options of text questions are not part of the submitted form and are skipped.
func (v *FormValidator) Validate(state domain.FormState) error {
	var missing []string
	check := func(field, value, tag string) {
		if err := v.validate.Var(strings.TrimSpace(value), tag); err != nil {
			missing = append(missing, field)
		}
	}

	check(domain.StatusField, state.Status.String(), "required,oneof=draft published")
	check(domain.NameField, state.Name, "required")
	for _, q := range state.Questions {
		check(domain.QuestionTextField(q.ID), q.Text, "required")
		check(domain.QuestionTypeField(q.ID), q.Type.String(), "required,oneof=multiple_choice single_choice text")
		if !q.Type.RequiresOptions() {
			continue
		}
		if len(q.Options) == 0 {
			missing = append(missing, domain.QuestionOptionsField(q.ID))
			continue
		}
		for _, opt := range q.Options {
			check(domain.QuestionOptionsField(q.ID), opt.Label, "required")
		}
	}

	if len(missing) > 0 {
		return &domain.ValidationError{Fields: dedupe(missing)}
	}
	return nil
}

func dedupe(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
