package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"moodmind/moodmind/config"
	"moodmind/moodmind/controllers"
	"moodmind/moodmind/routes"
	"moodmind/moodmind/services/chatbot"
	"moodmind/moodmind/services/sentiment"
	"moodmind/moodmind/sources/psql"
	"moodmind/moodmind/sources/psql/dao"
	"moodmind/moodmind/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// persistence is optional: without DB config the service keeps all
	// conversation state in memory
	var store chatbot.MessageStore
	if cfg.DBHost != "" {
		db, err := psql.NewDatabase(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		store = dao.NewChatMessageDAO(db.DB)
	} else {
		logging.AppLogger.Warn("no DB_HOST configured, running without persistence")
	}

	selector := sentiment.NewSelectorFromURL(cfg.SentimentServiceURL)
	augmentor := chatbot.NewAugmentor(cfg.OpenAI)

	catalog := chatbot.DefaultCatalog()
	if cfg.TemplatePath != "" {
		loaded, err := chatbot.LoadCatalog(cfg.TemplatePath)
		if err != nil {
			logging.ErrorLogger.Error("failed to load reply templates, using defaults",
				zap.String("path", cfg.TemplatePath), zap.Error(err))
		} else {
			catalog = loaded
		}
	}

	chatCtrl := controllers.NewChatController(selector, augmentor, catalog, store)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
