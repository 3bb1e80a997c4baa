package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Drashti7312/FinancialChatBot/internal/api"
	"github.com/Drashti7312/FinancialChatBot/internal/config"
	"github.com/Drashti7312/FinancialChatBot/internal/core/intent"
	"github.com/Drashti7312/FinancialChatBot/internal/core/lang"
	"github.com/Drashti7312/FinancialChatBot/internal/core/orchestrator"
	"github.com/Drashti7312/FinancialChatBot/internal/core/response"
	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/redis"
	"github.com/Drashti7312/FinancialChatBot/internal/service/ai"
	"github.com/Drashti7312/FinancialChatBot/internal/service/store"
	"github.com/Drashti7312/FinancialChatBot/internal/storage"
	"github.com/Drashti7312/FinancialChatBot/internal/tools"
	"github.com/Drashti7312/FinancialChatBot/internal/worker"
)

func main() {
	cfg, err := config.Load(os.Getenv("FINCHAT_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logx.Init(cfg.BasicConfig.Environment)

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, cfg.Database.Driver); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		logx.Warn().Err(err).Msg("redis unavailable, language cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	st := store.NewService(db, rdb)

	chartsDir := cfg.BasicConfig.ChartsDir
	if chartsDir == "" {
		chartsDir = "./data/charts"
	}
	charts, err := store.NewChartStore(chartsDir)
	if err != nil {
		log.Fatalf("init chart store: %v", err)
	}
	cleanCtx, cleanCancel := context.WithCancel(context.Background())
	defer cleanCancel()
	chartTTL := time.Duration(cfg.BasicConfig.ChartTTLMinutes) * time.Minute
	if chartTTL <= 0 {
		chartTTL = store.DefaultChartTTL
	}
	cleanInterval := time.Duration(cfg.BasicConfig.CleanIntervalMinutes) * time.Minute
	if cleanInterval <= 0 {
		cleanInterval = store.DefaultChartCleanupInterval
	}
	charts.StartCleaner(cleanCtx, cleanInterval, chartTTL)

	provider := os.Getenv("FINCHAT_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	client, err := ai.NewClient(context.Background(), provider, cfg)
	if err != nil {
		log.Fatalf("init ai client: %v", err)
	}

	detector := lang.NewDetector(client, st)
	classifier := intent.NewClassifier(client)
	processor := response.NewProcessor(client)
	registry := tools.NewRegistry(
		tools.NewStatisticalAnalyzer(),
		tools.NewTrendAnalyzer(),
		tools.NewTableExtractor(),
		tools.NewDocumentSummarizer(client),
		tools.NewWebResearcher(client),
		tools.NewComparativeAnalyzer(client),
		tools.NewGeneralQuery(client),
	)
	orch := orchestrator.New(detector, classifier, processor, registry, st)
	dispatcher := worker.NewDispatcher(cfg.BasicConfig.Workers, cfg.BasicConfig.QueueSize)

	handlers := api.NewHandler(st, charts, detector, orch, dispatcher, registry, client)

	if cfg.BasicConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8000"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
