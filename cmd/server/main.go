package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-intel-service/config"
	"price-intel-service/internal/api"
	"price-intel-service/internal/broker"
	"price-intel-service/internal/redisclient"
	"price-intel-service/internal/service"
	"price-intel-service/internal/store"
	"price-intel-service/internal/util"
	"price-intel-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting price intelligence service")

	gstRate, err := decimal.NewFromString(cfg.Business.DefaultGSTRate)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_GST_RATE: %v", err)
	}

	tp, err := util.InitTracer("price-intel-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrice)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalog := service.NewCatalogClient(db, redisClient)
	observationService := service.NewObservationService(db, redisClient, eventPublisher, catalog, gstRate, cfg.Business.HashCacheTTL)
	costService := service.NewCostService(db, eventPublisher)
	importService := service.NewImportService(db, observationService, catalog)

	ctx := context.Background()
	if err := catalog.SyncPackSizesToRedis(ctx); err != nil {
		log.Printf("Failed to sync pack sizes to Redis: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	hashConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrice, cfg.Kafka.ConsumerGroup)
	hashWorker := worker.NewHashCacheWorker(hashConsumer, redisClient, cfg.Business.HashCacheTTL)
	go func() {
		if err := hashWorker.Start(workerCtx); err != nil {
			log.Printf("Hash cache worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(observationService, costService, importService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	hashWorker.Stop()

	log.Println("Server exited")
}
