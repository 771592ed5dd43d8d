package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/chatfood/chatfood/internal/config"
	"github.com/chatfood/chatfood/internal/handler"
	"github.com/chatfood/chatfood/internal/module"
	"github.com/chatfood/chatfood/internal/module/info"
	"github.com/chatfood/chatfood/internal/module/services"
	"github.com/chatfood/chatfood/internal/module/suggest"
	catalogService "github.com/chatfood/chatfood/internal/service/catalog"
	"github.com/chatfood/chatfood/internal/service/knowledge"
	"github.com/chatfood/chatfood/internal/service/memory"
	orderService "github.com/chatfood/chatfood/internal/service/order"
	routerService "github.com/chatfood/chatfood/internal/service/router"
	"github.com/chatfood/chatfood/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.Catalog.DBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer db.Close()

	catalogSvc, err := catalogService.NewService(ctx, db)
	if err != nil {
		log.Fatalf("failed to initialize catalog service: %v", err)
	}

	orderSvc, err := orderService.NewService(ctx, db)
	if err != nil {
		log.Fatalf("failed to initialize order service: %v", err)
	}

	docs, err := loadRetriever(cfg.Knowledge)
	if err != nil {
		log.Fatalf("failed to load knowledge corpus: %v", err)
	}

	mem := memory.NewStore(cfg.Chat.HistoryWindow)

	// Each consumer gets its own chat model instance so the tool binding
	// of the services module never leaks into the other chains.
	if !cfg.AI.Enabled() {
		log.Println("ark credentials not configured, running with heuristic routing only")
	}

	routerSvc, err := routerService.NewService(ctx, newChatModel(ctx, cfg.AI))
	if err != nil {
		log.Fatalf("failed to initialize module router: %v", err)
	}

	infoModule, err := info.New(ctx, newChatModel(ctx, cfg.AI), docs, cfg.Knowledge.RetrieveRetries)
	if err != nil {
		log.Fatalf("failed to initialize food_info module: %v", err)
	}

	suggestModule, err := suggest.New(ctx, newChatModel(ctx, cfg.AI), catalogSvc, mem)
	if err != nil {
		log.Fatalf("failed to initialize food_suggestion module: %v", err)
	}

	servicesModule, err := services.New(newChatModel(ctx, cfg.AI), catalogSvc, orderSvc, mem)
	if err != nil {
		log.Fatalf("failed to initialize food_services module: %v", err)
	}

	registry := module.NewRegistry(infoModule, suggestModule, servicesModule)
	sessionSvc := session.NewService(routerSvc, registry)

	router := handler.NewRouter(sessionSvc)

	startServer(ctx, cfg.Server, router)
}

// newChatModel returns nil when the model is not configured or fails to
// initialize; every consumer degrades gracefully on nil.
func newChatModel(ctx context.Context, cfg config.AIConfig) model.ChatModel {
	if !cfg.Enabled() {
		return nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to create chat model: %v", err)
		return nil
	}
	return chatModel
}

func loadRetriever(cfg config.KnowledgeConfig) (*knowledge.Retriever, error) {
	if cfg.CorpusPath != "" {
		return knowledge.NewRetrieverFromFile(cfg.CorpusPath, cfg.TopK)
	}
	return knowledge.NewRetriever(knowledge.SeedCorpus(), cfg.TopK), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ChatFood backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
