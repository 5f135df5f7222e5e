package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyDocument は MongoDB 上でのアンケート定義スキーマを Go 構造体として表現したもの。
type SurveyDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	CreatorID   string             `bson:"creatorId"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	Questions   []QuestionDocument `bson:"questions"`
	Deleted     bool               `bson:"isDeleted,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// QuestionDocument は設問 1 件分の埋め込みドキュメント。
type QuestionDocument struct {
	Position int              `bson:"position"`
	Text     string           `bson:"text"`
	Type     string           `bson:"type"`
	Options  []OptionDocument `bson:"options,omitempty"`
}

// OptionDocument は選択肢 1 件分の埋め込みドキュメント。
type OptionDocument struct {
	Position int    `bson:"position"`
	Text     string `bson:"text"`
}
