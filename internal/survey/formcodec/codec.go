// Package formcodec converts between the builder model and the key/value form
// the survey endpoint receives.
package formcodec

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	builder "github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

var (
	ErrMissingName      = errors.New("survey name is required")
	ErrNoQuestions      = errors.New("at least one question is required")
	ErrMissingOptions   = errors.New("choice question requires at least one option")
	questionTextPattern = regexp.MustCompile(`^questions\[(\d+)\]\[text\]$`)
)

// Pair is one submitted field in document order.
type Pair struct {
	Key   string
	Value string
}

// Pairs flattens state in the order the rendered form lists its fields.
// Options of text questions are not rendered and therefore not submitted.
func Pairs(state builder.FormState) []Pair {
	pairs := []Pair{
		{Key: builder.StatusField, Value: state.Status.String()},
		{Key: builder.NameField, Value: state.Name},
		{Key: builder.DescriptionField, Value: state.Description},
	}
	for _, q := range state.Questions {
		pairs = append(pairs,
			Pair{Key: builder.QuestionTextField(q.ID), Value: q.Text},
			Pair{Key: builder.QuestionTypeField(q.ID), Value: q.Type.String()},
		)
		if !q.Type.RequiresOptions() {
			continue
		}
		for _, opt := range q.Options {
			pairs = append(pairs, Pair{Key: builder.QuestionOptionsField(q.ID), Value: opt.Label})
		}
	}
	return pairs
}

// Encode returns the form values a native submission of state would carry.
func Encode(state builder.FormState) url.Values {
	values := url.Values{}
	for _, p := range Pairs(state) {
		values.Add(p.Key, p.Value)
	}
	return values
}

// Definition is a decoded survey submission.
type Definition struct {
	Name        string
	Description string
	Status      builder.Status
	Questions   []QuestionDefinition
}

// QuestionDefinition holds one decoded question. Key is the id used in the field names.
type QuestionDefinition struct {
	Key     int
	Text    string
	Type    builder.QuestionType
	Options []string
}

// Decode は送信されたフォーム値を解釈する。
// 本文が空の設問は読み飛ばし、選択式で選択肢が 1 件も無い設問はエラーにする。
func Decode(values url.Values) (Definition, error) {
	status, err := builder.NewStatus(values.Get(builder.StatusField))
	if err != nil {
		return Definition{}, err
	}
	def := Definition{
		Name:        strings.TrimSpace(values.Get(builder.NameField)),
		Description: strings.TrimSpace(values.Get(builder.DescriptionField)),
		Status:      status,
	}
	if def.Name == "" {
		return Definition{}, ErrMissingName
	}

	keys := questionKeys(values)
	for _, key := range keys {
		text := strings.TrimSpace(values.Get(builder.QuestionTextField(key)))
		if text == "" {
			continue
		}
		qType := builder.QuestionTypeMultipleChoice
		if raw := strings.TrimSpace(values.Get(builder.QuestionTypeField(key))); raw != "" {
			qType, err = builder.NewQuestionType(raw)
			if err != nil {
				return Definition{}, fmt.Errorf("question %d: %w", key, err)
			}
		}
		question := QuestionDefinition{Key: key, Text: text, Type: qType}
		if qType.RequiresOptions() {
			for _, raw := range values[builder.QuestionOptionsField(key)] {
				if label := strings.TrimSpace(raw); label != "" {
					question.Options = append(question.Options, label)
				}
			}
			if len(question.Options) == 0 {
				return Definition{}, fmt.Errorf("question %d: %w", key, ErrMissingOptions)
			}
		}
		def.Questions = append(def.Questions, question)
	}
	if len(def.Questions) == 0 {
		return Definition{}, ErrNoQuestions
	}
	return def, nil
}

func questionKeys(values url.Values) []int {
	keys := make([]int, 0)
	for field := range values {
		m := questionTextPattern.FindStringSubmatch(field)
		if m == nil {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
