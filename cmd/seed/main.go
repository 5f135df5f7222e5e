package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
	"github.com/Sarojv04/TDS-Project/internal/infrastructure/formpost"
	mongodoc "github.com/Sarojv04/TDS-Project/internal/infrastructure/mongo"
	"github.com/Sarojv04/TDS-Project/internal/logger"
	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
)

type seedOptions struct {
	envName         string
	surveyCount     int
	authors         int
	dropCollections bool
	randomSeed      int64
}

type sampleQuestion struct {
	text    string
	qType   domain.QuestionType
	options []string
}

var sampleTitles = []string{
	"社内ランチアンケート", "リモートワーク満足度調査", "新機能フィードバック",
	"イベント参加希望調査", "オフィス環境アンケート", "研修プログラム評価",
}

var sampleQuestions = []sampleQuestion{
	{"好きな料理のジャンルは？", domain.QuestionTypeSingleChoice, []string{"和食", "洋食", "中華", "エスニック"}},
	{"利用しているツールを選んでください", domain.QuestionTypeMultipleChoice, []string{"Slack", "Notion", "GitHub", "Figma"}},
	{"週に何日出社していますか？", domain.QuestionTypeSingleChoice, []string{"0日", "1-2日", "3-4日", "5日"}},
	{"改善してほしい点を自由に記入してください", domain.QuestionTypeText, nil},
	{"参加しやすい時間帯は？", domain.QuestionTypeMultipleChoice, []string{"午前", "昼休み", "午後", "終業後"}},
	{"全体の満足度を教えてください", domain.QuestionTypeSingleChoice, []string{"満足", "やや満足", "普通", "不満"}},
}

// seed はビルダーと同じ経路 (FormStructureManager → フォーム送信 → 受信側デコード) でアンケートを投入する。
func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	zlog, err := logger.NewLogger(envOrDefault("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "survey-master")
	collection := envOrDefault("SURVEY_COLLECTION", "surveys")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		zlog.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodoc.NewSurveyRepository(client.Database(dbName), collection)
	if opts.dropCollections {
		if err := repo.Drop(ctx); err != nil {
			zlog.Warn("コレクションの削除に失敗しました", zap.String("collection", collection), zap.Error(err))
		}
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		zlog.Fatal("インデックス作成に失敗しました", zap.Error(err))
	}

	submitter := formpost.NewLocalSubmitter(surveyapp.NewSurveyService(repo), zlog.Named("formpost"))
	rng := rand.New(rand.NewSource(opts.randomSeed))

	var drafts, published int
	for i := 0; i < opts.surveyCount; i++ {
		owner := fmt.Sprintf("seed-author-%d", i%opts.authors+1)
		kind := domain.StatusDraft
		if rng.Intn(3) > 0 {
			kind = domain.StatusPublished
		}
		if err := buildAndSubmit(ctx, rng, owner, kind, submitter, zlog); err != nil {
			zlog.Fatal("アンケートの投入に失敗しました", zap.Int("index", i), zap.Error(err))
		}
		if kind == domain.StatusDraft {
			drafts++
		} else {
			published++
		}
	}

	zlog.Info("Seed 完了",
		zap.Int("drafts", drafts),
		zap.Int("published", published),
		zap.String("database", dbName),
		zap.String("env", opts.envName),
	)
}

func buildAndSubmit(ctx context.Context, rng *rand.Rand, owner string, kind domain.Status, submitter builderapp.Submitter, zlog *zap.Logger) error {
	state := domain.NewFormState(owner)
	manager := builderapp.NewFormStructureManager(&state, builderapp.ManagerConfig{
		Submitter: submitter,
		Logger:    zlog.Named("seed"),
	})

	title := sampleTitles[rng.Intn(len(sampleTitles))]
	description := title + "へのご協力をお願いします"
	actions := []domain.Action{domain.SetDetails{SurveyName: &title, Description: &description}}

	questionCount := 1 + rng.Intn(len(sampleQuestions))
	for i, idx := range rng.Perm(len(sampleQuestions))[:questionCount] {
		sample := sampleQuestions[idx]
		questionID := domain.InitialQuestionID + i
		if i > 0 {
			actions = append(actions, domain.AddQuestion{})
		}
		actions = append(actions,
			domain.SetQuestionText{QuestionID: questionID, Text: sample.text},
			domain.SetQuestionType{QuestionID: questionID, Type: sample.qType},
		)
		for j := 1; j < len(sample.options); j++ {
			actions = append(actions, domain.AddOption{QuestionID: questionID})
		}
	}
	for _, action := range actions {
		if err := manager.Dispatch(ctx, action); err != nil {
			return err
		}
	}

	// option refs only exist once AddOption has run
	for _, q := range state.Questions {
		sample := sampleFor(q.Text)
		for j, opt := range q.Options {
			if j >= len(sample.options) {
				break
			}
			if err := manager.Dispatch(ctx, domain.SetOptionLabel{OptionRef: opt.Ref, Label: sample.options[j]}); err != nil {
				return err
			}
		}
	}

	return manager.Dispatch(ctx, domain.Finalize{Kind: kind})
}

func sampleFor(text string) sampleQuestion {
	for _, q := range sampleQuestions {
		if q.text == text {
			return q
		}
	}
	return sampleQuestion{}
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env ディレクトリ内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.surveyCount, "surveys", 20, "生成するアンケート数")
	flag.IntVar(&opts.authors, "authors", 3, "作成者の人数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード（再現用）")
	flag.Parse()

	if opts.surveyCount <= 0 {
		log.Fatal("surveys は 1 以上を指定してください")
	}
	if opts.authors <= 0 {
		opts.authors = 1
	}
	return opts
}

// loadEnvFiles は shared.env と <env>.env を順に読み込む。存在しないファイルは無視する。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	for _, file := range []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, envName+".env"),
	} {
		if err := godotenv.Overload(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s の読み込みに失敗しました: %w", file, err)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
