package main

import (
	"context"
	"log"
	"os"

	"offerlens/internal/api"
	"offerlens/internal/config"
	"offerlens/internal/objectstore"
	"offerlens/internal/redis"
	"offerlens/internal/service/ai"
	"offerlens/internal/service/analyzer"
	"offerlens/internal/service/review"
	"offerlens/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("OFFERLENS_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("OFFERLENS_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("create redis client: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	blobs, err := objectstore.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init object store: %v", err)
	}

	provider := os.Getenv("OFFERLENS_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	chatModel, err := ai.NewChatModel(ctx, provider, os.Getenv("OFFERLENS_MODEL"), cfg)
	if err != nil {
		log.Fatalf("init %s chat model: %v", provider, err)
	}
	completions := ai.NewService(chatModel)

	reviewService := review.NewService(db, dbType)
	pipeline := analyzer.NewOrchestrator(reviewService, completions, blobs, rdb)
	handlers := api.NewHandler(reviewService, pipeline, blobs)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
