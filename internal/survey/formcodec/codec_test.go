package formcodec

import (
	"errors"
	"net/url"
	"testing"

	builder "github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

func TestEncodeUsesWireNames(t *testing.T) {
	state := builder.NewFormState("author-1")
	state.Name = "Lunch poll"
	state.Questions[0].Text = "Favourite food?"
	state.Questions[0].Options[0].Label = "Pizza"
	state.AppendOption(1)
	state.Questions[0].Options[1].Label = "Sushi"
	q := state.AppendQuestion()
	state.SetQuestionText(q.ID, "Anything else?")
	state.SetQuestionType(q.ID, builder.QuestionTypeText)
	state.Status = builder.StatusDraft

	values := Encode(state)

	if got := values.Get("status"); got != "draft" {
		t.Fatalf("status = %q", got)
	}
	if got := values["questions[1][options][]"]; len(got) != 2 || got[0] != "Pizza" || got[1] != "Sushi" {
		t.Fatalf("options = %v", got)
	}
	if got := values.Get("questions[2][text]"); got != "Anything else?" {
		t.Fatalf("text = %q", got)
	}
	if _, ok := values["questions[2][options][]"]; ok {
		t.Fatalf("text question must not submit options")
	}
}

func TestDecode(t *testing.T) {
	values := url.Values{
		"status":                  {"published"},
		"survey_name":             {" Team survey "},
		"description":             {"quarterly"},
		"questions[10][text]":     {"Later question"},
		"questions[10][type]":     {"text"},
		"questions[2][text]":      {"Pick one"},
		"questions[2][type]":      {"single_choice"},
		"questions[2][options][]": {"A", " ", "B"},
		"questions[3][text]":      {"   "},
	}

	def, err := Decode(values)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if def.Name != "Team survey" || def.Status != builder.StatusPublished {
		t.Fatalf("unexpected header: %+v", def)
	}
	if len(def.Questions) != 2 {
		t.Fatalf("questions = %+v", def.Questions)
	}
	if def.Questions[0].Key != 2 || def.Questions[1].Key != 10 {
		t.Fatalf("questions must be ordered by key: %+v", def.Questions)
	}
	if opts := def.Questions[0].Options; len(opts) != 2 || opts[1] != "B" {
		t.Fatalf("blank options should be dropped: %v", opts)
	}
	if def.Questions[1].Options != nil {
		t.Fatalf("text question has no options")
	}
}

func TestDecodeDefaultsTypeToMultipleChoice(t *testing.T) {
	def, err := Decode(url.Values{
		"status":                  {"draft"},
		"survey_name":             {"s"},
		"questions[1][text]":      {"q"},
		"questions[1][options][]": {"x"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if def.Questions[0].Type != builder.QuestionTypeMultipleChoice {
		t.Fatalf("type = %q", def.Questions[0].Type)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   error
	}{
		{
			name:   "missing status",
			values: url.Values{"survey_name": {"s"}, "questions[1][text]": {"q"}},
			want:   builder.ErrInvalidStatus,
		},
		{
			name:   "missing name",
			values: url.Values{"status": {"draft"}, "questions[1][text]": {"q"}},
			want:   ErrMissingName,
		},
		{
			name:   "no questions",
			values: url.Values{"status": {"draft"}, "survey_name": {"s"}},
			want:   ErrNoQuestions,
		},
		{
			name: "choice without options",
			values: url.Values{
				"status": {"draft"}, "survey_name": {"s"},
				"questions[1][text]": {"q"}, "questions[1][options][]": {""},
			},
			want: ErrMissingOptions,
		},
		{
			name: "bad type",
			values: url.Values{
				"status": {"draft"}, "survey_name": {"s"},
				"questions[1][text]": {"q"}, "questions[1][type]": {"checkbox"},
			},
			want: builder.ErrInvalidQuestionType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.values); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
