package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/notification"
	notifListenerPkg "github.com/fekuna/omnipos-storefront/internal/notification/listener"
	"github.com/fekuna/omnipos-storefront/internal/payment"
	"github.com/fekuna/omnipos-storefront/internal/schema"
	"github.com/fekuna/omnipos-storefront/internal/server"
	"github.com/fekuna/omnipos-storefront/internal/storage"
	"github.com/fekuna/omnipos-storefront/pkg/broker"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/search"
	"github.com/fekuna/omnipos-storefront/pkg/telemetry"

	addressH "github.com/fekuna/omnipos-storefront/internal/address/handler"
	addressRepoPkg "github.com/fekuna/omnipos-storefront/internal/address/repository"
	addressUCPkg "github.com/fekuna/omnipos-storefront/internal/address/usecase"

	cartH "github.com/fekuna/omnipos-storefront/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-storefront/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-storefront/internal/cart/usecase"

	catH "github.com/fekuna/omnipos-storefront/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-storefront/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront/internal/category/usecase"

	dashH "github.com/fekuna/omnipos-storefront/internal/dashboard/handler"
	dashRepoPkg "github.com/fekuna/omnipos-storefront/internal/dashboard/repository"
	dashUCPkg "github.com/fekuna/omnipos-storefront/internal/dashboard/usecase"

	orderH "github.com/fekuna/omnipos-storefront/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-storefront/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-storefront/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-storefront/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-storefront/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront/internal/product/usecase"

	userH "github.com/fekuna/omnipos-storefront/internal/user/handler"
	userDTO "github.com/fekuna/omnipos-storefront/internal/user/dto"
	userRepoPkg "github.com/fekuna/omnipos-storefront/internal/user/repository"
	userUCPkg "github.com/fekuna/omnipos-storefront/internal/user/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const appName = "OmniPOS Storefront"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2.5 Tracing
	if cfg.Telemetry.Enabled {
		shutdownTracer, err := telemetry.InitTracer(ctx, &telemetry.Config{
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			appLogger.Warn("Could not start tracer", zap.Error(err))
		} else {
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				if err := shutdownTracer(flushCtx); err != nil {
					appLogger.Warn("Tracer shutdown failed", zap.Error(err))
				}
			}()
			appLogger.Info("Tracing enabled", zap.String("endpoint", cfg.Telemetry.Endpoint))
		}
	}

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := schema.Apply(ctx, db); err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
	}
	tx := postgres.NewTransactor(db)

	// 4. Initialize Repositories
	userRepo := userRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	cartRepo := cartRepoPkg.NewPGRepository(db)
	addressRepo := addressRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	dashRepo := dashRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	var redisClient *cache.RedisClient
	var revoker auth.Revoker = auth.NewMemoryDenylist()
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		revoker = auth.NewRedisDenylist(redisClient)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, searching the database instead", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5.8 Notifications
	hub := notification.NewHub(cfg.CORS.AllowedOrigins, appLogger)
	mailer := notification.NewMailer(notification.MailerConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		AppName:  appName,
		AppURL:   cfg.Server.AppURL,
	})
	notifiers := notification.Multi{hub, notification.NewLogNotifier(appLogger)}

	if cfg.Kafka.Enabled {
		kafkaConfig := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer := broker.NewProducer(kafkaConfig)
		defer producer.Close()
		notifiers = append(notifiers, notification.NewEventPublisher(producer))

		consumer := broker.NewConsumer(kafkaConfig)
		defer consumer.Close()
		orderListener := notifListenerPkg.NewOrderListener(consumer, mailer, appLogger)
		go orderListener.Start(ctx)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, mailer)
	}

	// 5.9 Payments
	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = payment.NewStripeGateway(&payment.Config{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Currency:      cfg.Stripe.Currency,
		})
	} else {
		appLogger.Warn("Stripe is not configured, payment endpoints are disabled")
	}

	images := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.PublicURL)
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TokenTTL())

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, redisClient, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, images, redisClient, esClient, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartRepo, prodRepo, appLogger)
	addressUC := addressUCPkg.NewAddressUseCase(addressRepo, tx, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, tx, cartRepo, prodRepo, addressRepo, userRepo, notifiers, gateway, appLogger)
	userUC := userUCPkg.NewUserUseCase(userRepo, auth.NewPasswordHasher(0), tokens, revoker, orderUC, addressRepo, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(dashRepo, prodRepo, catRepo, userRepo, orderUC, appLogger)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		err := userUC.EnsureAdmin(ctx, &userDTO.RegisterInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			appLogger.Fatal("Could not create administrator", zap.Error(err))
		}
	}

	// 7. Initialize Handlers
	router := server.NewRouter(&server.Handlers{
		Users:      userH.NewUserHandler(userUC, appLogger),
		Categories: catH.NewCategoryHandler(catUC, appLogger),
		Products:   prodH.NewProductHandler(prodUC, appLogger),
		Cart:       cartH.NewCartHandler(cartUC, appLogger),
		Orders:     orderH.NewOrderHandler(orderUC, appLogger),
		Addresses:  addressH.NewAddressHandler(addressUC, appLogger),
		Dashboard:  dashH.NewDashboardHandler(dashUC, appLogger),
		OrderFeed:  hub,
	}, auth.NewMiddleware(tokens, revoker, userRepo, appLogger), db, server.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StorageDir:     cfg.Storage.Dir,
	}, appLogger)

	var handler http.Handler = router
	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(router, cfg.Telemetry.ServiceName)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Start ops gRPC server
	lis, err := net.Listen("tcp", cfg.Server.GRPCPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", cfg.Server.GRPCPort), zap.Error(err))
	}
	grpcServer, healthServer := server.NewOpsServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC ops server", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
