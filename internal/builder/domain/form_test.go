package domain

import (
	"errors"
	"testing"
)

func TestNewFormStateSeedsFirstQuestion(t *testing.T) {
	state := NewFormState("author-1")

	if state.Counter != InitialQuestionID {
		t.Fatalf("counter = %d, want %d", state.Counter, InitialQuestionID)
	}
	if len(state.Questions) != 1 || state.Questions[0].ID != 1 {
		t.Fatalf("unexpected questions: %+v", state.Questions)
	}
	if got := len(state.Questions[0].Options); got != 1 {
		t.Fatalf("options = %d, want 1", got)
	}
	if state.Status != "" {
		t.Fatalf("status must be unset before finalize, got %q", state.Status)
	}
	if state.Phase != PhaseEditing {
		t.Fatalf("phase = %q", state.Phase)
	}
}

func TestAppendQuestionAssignsIncreasingIDs(t *testing.T) {
	state := NewFormState("author-1")
	for i := 0; i < 5; i++ {
		q := state.AppendQuestion()
		want := 1 + InitialQuestionID + i
		if q.ID != want {
			t.Fatalf("call %d: id = %d, want %d", i, q.ID, want)
		}
		if len(q.Options) != 1 {
			t.Fatalf("new question must be seeded with one option")
		}
	}
	seen := map[int]bool{}
	for _, q := range state.Questions {
		if seen[q.ID] {
			t.Fatalf("duplicate id %d", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestAppendOptionPositionFromLiveCount(t *testing.T) {
	state := NewFormState("author-1")
	for want := 2; want <= 4; want++ {
		_, position, err := state.AppendOption(1)
		if err != nil {
			t.Fatalf("AppendOption: %v", err)
		}
		if position != want {
			t.Fatalf("position = %d, want %d", position, want)
		}
	}

	if _, _, err := state.AppendOption(99); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("want ErrQuestionNotFound, got %v", err)
	}
	if got := len(state.Questions[0].Options); got != 4 {
		t.Fatalf("options = %d, want 4", got)
	}
}

func TestRemoveOption(t *testing.T) {
	state := NewFormState("author-1")
	state.AppendOption(1)
	state.AppendOption(1)
	refs := []string{
		state.Questions[0].Options[0].Ref,
		state.Questions[0].Options[1].Ref,
		state.Questions[0].Options[2].Ref,
	}

	if _, err := state.RemoveOption(refs[1]); err != nil {
		t.Fatalf("RemoveOption: %v", err)
	}
	q := state.Questions[0]
	if len(q.Options) != 2 || q.Options[0].Ref != refs[0] || q.Options[1].Ref != refs[2] {
		t.Fatalf("unexpected options after removal: %+v", q.Options)
	}
	if q.OptionPosition(refs[2]) != 2 {
		t.Fatalf("remaining option should now sit at position 2")
	}

	if _, err := state.RemoveOption("missing"); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("want ErrOptionNotFound, got %v", err)
	}

	state.RemoveOption(refs[0])
	if _, err := state.RemoveOption(refs[2]); !errors.Is(err, ErrLastOption) {
		t.Fatalf("want ErrLastOption, got %v", err)
	}
}

func TestEditable(t *testing.T) {
	state := NewFormState("author-1")
	if err := state.Editable(); err != nil {
		t.Fatalf("editing form should be editable: %v", err)
	}
	state.Phase = PhaseSubmitting
	if err := state.Editable(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("got %v", err)
	}
	state.Phase = PhasePublished
	if err := state.Editable(); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("got %v", err)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	state := NewFormState("author-1")
	clone := state.Clone()
	clone.Questions[0].Options[0].Label = "changed"
	clone.Questions[0].Text = "changed"

	if state.Questions[0].Options[0].Label != "" || state.Questions[0].Text != "" {
		t.Fatalf("clone mutated original: %+v", state.Questions[0])
	}
}

func TestFieldNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{QuestionTextField(2), "questions[2][text]"},
		{QuestionTypeField(2), "questions[2][type]"},
		{QuestionOptionsField(2), "questions[2][options][]"},
		{OptionPlaceholder(4), "Option 4"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParsers(t *testing.T) {
	if _, err := NewStatus("closed"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("closed is not a terminal kind: %v", err)
	}
	if s, err := NewStatus(" published "); err != nil || s != StatusPublished {
		t.Fatalf("got %q %v", s, err)
	}
	if _, err := NewQuestionType("checkbox"); !errors.Is(err, ErrInvalidQuestionType) {
		t.Fatalf("got %v", err)
	}
	if QuestionTypeText.RequiresOptions() {
		t.Fatalf("text questions take no options")
	}
}

func TestRestoreFormStateResumesCounter(t *testing.T) {
	state := RestoreFormState("author-1", "s1", "Lunch", "Team lunch", StatusPublished, []StoredQuestion{
		{ID: 1, Text: "Food?", Type: QuestionTypeSingleChoice, Labels: []string{"Pizza", "Sushi"}},
		{ID: 2, Text: "Notes", Type: QuestionTypeText},
	})

	if state.SurveyID != "s1" || state.Owner != "author-1" || state.Status != StatusPublished || state.Phase != PhaseEditing {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Counter != 2 {
		t.Fatalf("counter = %d, want 2", state.Counter)
	}
	if got := state.Questions[0].Options; len(got) != 2 || got[1].Label != "Sushi" || got[0].Ref == got[1].Ref {
		t.Fatalf("options = %+v", got)
	}
	if len(state.Questions[1].Options) != 1 {
		t.Fatalf("text question must keep its placeholder option")
	}
	if q := state.AppendQuestion(); q.ID != 3 {
		t.Fatalf("next id = %d, want 3", q.ID)
	}
}

func TestRestoreFormStateWithoutQuestions(t *testing.T) {
	state := RestoreFormState("author-1", "s1", "Empty", "", StatusDraft, nil)
	if state.Counter != InitialQuestionID || len(state.Questions) != 1 {
		t.Fatalf("unexpected state: %+v", state)
	}
}
