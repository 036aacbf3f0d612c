package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/surp29/Backend-PoS/internal/cache"
	"github.com/surp29/Backend-PoS/internal/chatbot"
	"github.com/surp29/Backend-PoS/internal/config"
	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/httpapi"
	"github.com/surp29/Backend-PoS/internal/logging"
	"github.com/surp29/Backend-PoS/internal/service"
	"github.com/surp29/Backend-PoS/internal/store"
	"github.com/surp29/Backend-PoS/internal/store/memory"
	pgstore "github.com/surp29/Backend-PoS/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("postgres unavailable and DATABASE_URL is set, refusing in-memory fallback")
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Info("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Info("repository: in-memory")
	}

	chatCache := cache.ChatCache(cache.NoopChatCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisChatCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, using noop chatbot cache")
		} else {
			chatCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Info("chatbot cache: redis")
		}
	} else {
		log.Info("chatbot cache: noop")
	}

	recorder := diary.NewRecorder(repo, log, cfg.DiaryBuffer)
	diaryCtx, stopDiary := context.WithCancel(context.Background())
	go recorder.Run(diaryCtx)

	svc := service.New(repo, recorder, log)
	bot := chatbot.NewEngine(repo, chatCache, time.Duration(cfg.ChatbotTTLSeconds)*time.Second)

	auth := httpapi.NewAuthManager(repo, cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, log)
	if err := auth.EnsureAdmin(ctx, cfg.SeedAdminPassword); err != nil {
		log.WithError(err).Fatal("admin bootstrap failed")
	}

	api := httpapi.New(svc, auth, bot, log, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Address()).Info("backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}

	// Stop the diary worker after the listener so in-flight mutations can
	// still queue their entries, then give the flush a moment to land.
	stopDiary()
	recorder.Wait(5 * time.Second)

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("close error")
		}
	}

	log.Info("server stopped")
}
