package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-deals/internal/api"
	"meal-deals/internal/api/handlers/health"
	"meal-deals/internal/core/ai/llm"
	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/core/ai/queue"
	"meal-deals/internal/core/ai/service"
	"meal-deals/internal/core/cache"
	"meal-deals/internal/core/chatbot"
	"meal-deals/internal/core/menu"
	"meal-deals/internal/core/recommendation"
	"meal-deals/internal/core/reviews"
	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/infrastructure/database"
	"meal-deals/internal/pkg/common"

	"go.uber.org/zap"
)

// startupTimeout bound on connecting, migrating and warming indexes
const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// logger needs the loaded config
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo(common.MsgAppStarting,
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("menu_source", cfg.Menu.Source),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("filter_policy", cfg.Recommendation.FilterPolicy),
		zap.String("llm_model", cfg.LLM.Model),
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	repo, closeRepo, err := openRepository(ctx, cfg)
	cancel()
	if err != nil {
		common.LogFatal("failed to open menu source", zap.Error(err))
	}
	defer closeRepo()

	store, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	catalog := menu.NewCatalog(repo, store, cfg.Cache.TTL)

	slots := queue.NewManager(cfg.Queue)
	defer slots.Close()

	// typed nils must not reach the services
	var (
		generator  recommendation.Generator
		chatGen    chatbot.Generator
		generation health.Generation
	)
	if cfg.LLM.APIKey == "" {
		common.LogWarn("no generation api key configured, recommendations use the fallback bundler only")
	} else {
		client := llm.NewClient(provider.Config{
			APIKey:    cfg.LLM.APIKey,
			Model:     cfg.LLM.Model,
			BaseURL:   cfg.LLM.BaseURL,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   cfg.LLM.Timeout,
		})
		defer client.Close()

		guarded := service.NewService(client, slots, cfg.Breaker)
		generator, chatGen, generation = guarded, guarded, guarded
	}

	recommender := recommendation.NewService(catalog, generator, recommendation.Options{
		Policy:      cfg.Recommendation.FilterPolicy,
		MaxItems:    cfg.Recommendation.MaxItems,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	svcs := api.Services{
		Recommend: recommender,
		Reviews:   reviews.NewService(catalog),
		Checks: map[string]health.Checker{
			"menu": catalog,
		},
		Generation: generation,
	}

	if cfg.Chat.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		index := buildChatIndex(ctx, cfg, catalog)
		cancel()

		svcs.Chat = chatbot.NewService(index, chatGen, chatbot.Options{
			Model:       cfg.LLM.ChatModel,
			MaxTokens:   cfg.LLM.MaxTokens,
			TopK:        cfg.Chat.TopK,
			HistorySize: cfg.Chat.HistorySize,
		})
	}

	router := api.SetupRouter(cfg, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
	}

	common.LogInfo(common.MsgServerExited)
}

// openRepository opens the configured menu source. The returned func releases it.
func openRepository(ctx context.Context, cfg *config.Config) (menu.Repository, func(), error) {
	switch cfg.Menu.Source {
	case config.SourceFile:
		repo, err := menu.LoadFileRepo(cfg.Menu.File)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case config.SourcePostgres:
		db, err := database.Connect(ctx, cfg.Database.URL, database.OptionsFromConfig(cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Migrate {
			if err := database.RunMigrations(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return &menu.PGRepo{DB: db}, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown menu source %q", cfg.Menu.Source)
	}
}

// buildChatIndex indexes the knowledge file and the chat branch menu. Missing
// sources shrink the index instead of failing startup.
func buildChatIndex(ctx context.Context, cfg *config.Config, catalog *menu.Catalog) *chatbot.Index {
	var passages []chatbot.Passage

	if cfg.Chat.KnowledgeFile != "" {
		kb, err := chatbot.LoadKnowledge(cfg.Chat.KnowledgeFile)
		if err != nil {
			common.LogWarn("knowledge file unavailable", zap.Error(err))
		}
		passages = append(passages, kb...)
	}

	items, err := catalog.Menu(ctx, cfg.Chat.Branch)
	if err != nil {
		common.LogWarn("chat menu unavailable", zap.Int("branch", cfg.Chat.Branch), zap.Error(err))
	}
	passages = append(passages, chatbot.MenuPassages(items)...)

	common.LogInfo("chat index built", zap.Int("passages", len(passages)))
	return chatbot.NewIndex(passages)
}
