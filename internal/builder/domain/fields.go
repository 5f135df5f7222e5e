package domain

import "fmt"

// Form-level field names shared with the survey endpoint.
const (
	StatusField      = "status"
	NameField        = "survey_name"
	DescriptionField = "description"
)

func QuestionTextField(questionID int) string {
	return fmt.Sprintf("questions[%d][text]", questionID)
}

func QuestionTypeField(questionID int) string {
	return fmt.Sprintf("questions[%d][type]", questionID)
}

// QuestionOptionsField は選択肢ごとに繰り返される、インデックスなし配列のフィールド名。
func QuestionOptionsField(questionID int) string {
	return fmt.Sprintf("questions[%d][options][]", questionID)
}

// OptionPlaceholder is the placeholder text for the option at position.
func OptionPlaceholder(position int) string {
	return fmt.Sprintf("Option %d", position)
}
