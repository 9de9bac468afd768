package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/currency-transformer/internal/config"
	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/STTM-NSU/currency-transformer/internal/postgres"
	"github.com/STTM-NSU/currency-transformer/internal/rates"
	"github.com/STTM-NSU/currency-transformer/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	bootLogger, bootSync, err := logger.NewZapLogger(logger.Info)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}

	if err := godotenv.Load(); err != nil {
		bootLogger.Warnf("can't detect .env file")
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		bootLogger.Fatalf("%s: can't load config", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		bootLogger.Warnf("%s: using info level", err)
	}
	bootSync()

	zapLogger, loggerSync, err := logger.NewZapLogger(level)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zapLogger.Debugf("trying to connect to db with: %s", postgres.Redact(cfg.Database.URL))
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatalf("%s: can't connect to db", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Errorf("%s: can't close db", err)
		}
	}()

	store := rates.NewStore(db, cfg.Store.MaxQueriesPerSecond, zapLogger.Component("rate_store"))
	service := rates.NewService(store, zapLogger.Component("conversion"))
	handler := server.NewHandler(service, cfg.Server.RequestTimeout, zapLogger.Component("http"))

	srv := server.NewHTTPServer(ctx, cfg.Server, handler, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Errorf("%s: server stopped", err)
		return
	}
	zapLogger.Infoln("server stopped")
}
