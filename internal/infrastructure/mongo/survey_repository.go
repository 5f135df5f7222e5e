package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyRepository はビルダーから送信されたアンケート定義を MongoDB で扱うリポジトリ。
type SurveyRepository struct {
	surveys *mongo.Collection
}

// NewSurveyRepository はアンケートコレクションを束縛したリポジトリを生成する。
func NewSurveyRepository(db *mongo.Database, surveyCollection string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(surveyCollection)}
}

// Find は作成者/ステータス条件を Mongo クエリへ変換し、新しい順に一覧を返す。
func (r *SurveyRepository) Find(ctx context.Context, filter surveyapp.SurveyFilter, paging surveyapp.Paging) ([]surveydomain.Survey, error) {
	mongoFilter := buildSurveyFilter(filter)

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			skip := int64((paging.Page - 1) * paging.Limit)
			findOpts.SetSkip(skip)
		}
	}

	cursor, err := r.surveys.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]surveydomain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		surveys = append(surveys, mapSurveyDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return surveys, nil
}

// FindByID は ID を ObjectID 化して単一のアンケートを復元する。不正な ID と論理削除済みは未検出として扱う。
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*surveydomain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, surveydomain.ErrSurveyNotFound
	}
	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"_id": objectID, "isDeleted": notDeleted}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, surveydomain.ErrSurveyNotFound
		}
		return nil, err
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// Create はドメインのアンケートを Mongo ドキュメントへ変換して新規登録する。
func (r *SurveyRepository) Create(ctx context.Context, survey *surveydomain.Survey) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	doc := mapDomainSurveyToDocument(survey)
	doc.ID = primitive.NewObjectID()
	if _, err := r.surveys.InsertOne(ctx, doc); err != nil {
		return err
	}
	survey.ID = doc.ID.Hex()
	return nil
}

// Update はステータスと設問の差し替え更新を行う。
// 保存済みのステータスが from のままの場合だけ書き込み、それ以外は ErrSurveyConflict を返す。
func (r *SurveyRepository) Update(ctx context.Context, survey *surveydomain.Survey, from surveydomain.Status) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(survey.ID))
	if err != nil {
		return surveydomain.ErrSurveyNotFound
	}
	doc := mapDomainSurveyToDocument(survey)
	result, err := r.surveys.UpdateOne(ctx, buildSurveyUpdateFilter(objectID, from), bson.M{"$set": buildSurveyUpdatePayload(doc)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return surveydomain.ErrSurveyConflict
	}
	return nil
}

// notDeleted は isDeleted を持たない旧ドキュメントにも一致させる。
var notDeleted = bson.M{"$ne": true}

func buildSurveyUpdateFilter(id primitive.ObjectID, from surveydomain.Status) bson.M {
	return bson.M{
		"_id":       id,
		"status":    from.String(),
		"isDeleted": notDeleted,
	}
}

func buildSurveyFilter(filter surveyapp.SurveyFilter) bson.M {
	mongoFilter := bson.M{"isDeleted": notDeleted}
	if creator := strings.TrimSpace(filter.CreatorID); creator != "" {
		mongoFilter["creatorId"] = creator
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		mongoFilter["status"] = status
	}
	return mongoFilter
}

// mapSurveyDocument は Mongo 文書をドメイン Survey へ変換する。
func mapSurveyDocument(doc SurveyDocument) surveydomain.Survey {
	questions := make([]surveydomain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		question := surveydomain.Question{Position: q.Position, Text: q.Text, Type: q.Type}
		for _, opt := range q.Options {
			question.Options = append(question.Options, surveydomain.Option{Position: opt.Position, Text: opt.Text})
		}
		questions = append(questions, question)
	}
	return surveydomain.Survey{
		ID:          doc.ID.Hex(),
		CreatorID:   doc.CreatorID,
		Name:        doc.Name,
		Description: doc.Description,
		Status:      surveydomain.Status(doc.Status),
		Questions:   questions,
		Deleted:     doc.Deleted,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// mapDomainSurveyToDocument はドメイン Survey を Mongo 保存形式に射影する。
func mapDomainSurveyToDocument(survey *surveydomain.Survey) SurveyDocument {
	createdAt := survey.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := survey.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	questions := make([]QuestionDocument, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		doc := QuestionDocument{Position: q.Position, Text: q.Text, Type: q.Type}
		for _, opt := range q.Options {
			doc.Options = append(doc.Options, OptionDocument{Position: opt.Position, Text: opt.Text})
		}
		questions = append(questions, doc)
	}

	return SurveyDocument{
		CreatorID:   survey.CreatorID,
		Name:        survey.Name,
		Description: survey.Description,
		Status:      survey.Status.String(),
		Questions:   questions,
		Deleted:     survey.Deleted,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// buildSurveyUpdatePayload は SurveyDocument を $set 用の BSON マップに変換する。
func buildSurveyUpdatePayload(doc SurveyDocument) bson.M {
	return bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"status":      doc.Status,
		"questions":   doc.Questions,
		"isDeleted":   doc.Deleted,
		"updatedAt":   doc.UpdatedAt,
	}
}

// EnsureIndexes は一覧 API が使う作成者・ステータス・作成日時の索引を用意する。
func (r *SurveyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.surveys.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creatorId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_survey_creator_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_survey_status_created"),
		},
	})
	return err
}

// Drop はコレクションを削除する。seed コマンドからのみ利用する。
func (r *SurveyRepository) Drop(ctx context.Context) error {
	return r.surveys.Drop(ctx)
}
