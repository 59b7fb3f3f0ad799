// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inbound-wms-api-server/config"
	"inbound-wms-api-server/internal/api/handlers"
	"inbound-wms-api-server/internal/api/routes"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/database"
	"inbound-wms-api-server/internal/events"
	"inbound-wms-api-server/internal/i18n"
	"inbound-wms-api-server/internal/logger"
	"inbound-wms-api-server/internal/repository"
	"inbound-wms-api-server/internal/s3"
	"inbound-wms-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// stores là kho dữ liệu đã chọn theo storage.driver, kèm hàm đóng kết nối.
type stores struct {
	requests repository.InboundRequestRepository
	users    repository.UserRepository
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return &stores{
			requests: repository.NewMemoryRepository(time.Now),
			users:    repository.NewMemoryUserRepository(),
			close:    func() {},
		}, nil

	case "mongo":
		client, db, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to MongoDB", zap.String("db", cfg.Mongo.DBName))
		return &stores{
			requests: repository.NewMongoRepository(db, time.Now),
			users:    repository.NewMongoUserRepository(db),
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case "postgres":
		if cfg.Postgres.RunMigrations {
			if err := database.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to Postgres")
		return &stores{
			requests: repository.NewPostgresRepository(pool, time.Now),
			users:    repository.NewMemoryUserRepository(),
			close:    pool.Close,
		}, nil

	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SQLite database", zap.String("path", cfg.SQLite.Path))
		return &stores{
			requests: repository.NewSQLiteRepository(db, time.Now),
			users:    repository.NewMemoryUserRepository(),
			close:    func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func main() {
	// .env là tùy chọn; biến môi trường thật luôn được ưu tiên.
	_ = godotenv.Load()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Logger
	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// 3. Storage + seed
	st, err := openStores(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer st.close()

	if cfg.Storage.Seed {
		if err := database.SeedInboundRequests(ctx, st.requests, zapLogger); err != nil {
			zapLogger.Fatal("Failed to seed inbound requests", zap.Error(err))
		}
	}
	if err := database.SeedSuperAdmin(ctx, st.users, cfg.Admin, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed super admin", zap.Error(err))
	}

	// 4. Thông báo: WebSocket hub luôn bật, RabbitMQ khi có cấu hình
	hub := socket.NewHub(zapLogger)
	notifiers := []events.Notifier{hub}
	if cfg.RabbitMQ.URL != "" {
		conn, err := events.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer conn.Close()

		publisher, err := events.NewPublisher(conn, cfg.RabbitMQ.Queue)
		if err != nil {
			zapLogger.Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		zapLogger.Info("Publishing inbound events to RabbitMQ", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	// 5. S3 cho file đính kèm
	var uploader handlers.AttachmentUploader
	if cfg.S3.Enabled() {
		s3Uploader, err := s3.NewUploader(ctx, cfg.S3)
		if err != nil {
			zapLogger.Fatal("Failed to create S3 uploader", zap.Error(err))
		}
		uploader = s3Uploader
	} else {
		zapLogger.Warn("S3 is not configured; attachment uploads are disabled")
	}

	// 6. JWT
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		zapLogger.Fatal("Invalid JWT configuration", zap.Error(err))
	}

	// 7. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(routes.Dependencies{
		Config: cfg,
		Logger: zapLogger,
		Service: &handlers.InboundService{
			Repo:     st.requests,
			Notifier: events.NewFanout(zapLogger, notifiers...),
			Logger:   zapLogger,
			Now:      time.Now,
		},
		Users:    st.users,
		Tokens:   tokens,
		Hub:      hub,
		Uploader: uploader,
		Bundle:   i18n.Default(),
	})

	// 8. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting API server", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}
