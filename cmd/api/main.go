package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Sarojv04/TDS-Project/internal/config"
	"github.com/Sarojv04/TDS-Project/internal/infrastructure/sessionstore"
	"github.com/Sarojv04/TDS-Project/internal/logger"
	"github.com/Sarojv04/TDS-Project/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("config loaded", zap.Stringer("config", cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		zlog.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.UseRedis() {
		redisClient = sessionstore.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Fatal("Redis 接続に失敗しました", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	app := server.New(cfg, zlog, client, redisClient)
	if err := app.Run(); err != nil {
		zlog.Fatal("サーバーが異常終了しました", zap.Error(err))
	}
}
