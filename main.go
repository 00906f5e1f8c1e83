package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/cache"
	"github.com/tindora/tindora-api/clients"
	"github.com/tindora/tindora-api/config"
	"github.com/tindora/tindora-api/controllers"
	"github.com/tindora/tindora-api/initializers"
	"github.com/tindora/tindora-api/routes"
	"github.com/tindora/tindora-api/services"
	"go.uber.org/zap"
)

func main() {
	initializers.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := initializers.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := initializers.ConnectToDB(&cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := initializers.SyncDatabase(); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	policyCache := cache.NewPolicyCache(&cfg.Redis, logger)
	if policyCache != nil {
		defer policyCache.Close()
	}

	// Collaborators are optional. Interfaces stay nil unless a concrete
	// client is configured, so the order pipeline can skip the step.
	var gateway services.PaymentGateway
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		gateway = clients.NewRazorpayClient(&cfg.Razorpay)
	}
	var notifier services.RestaurantNotifier
	if cfg.Collaborators.NotifierURL != "" {
		notifier = clients.NewNotificationClient(cfg.Collaborators.NotifierURL)
	}
	var eta services.ETAService
	if cfg.Collaborators.ETAURL != "" {
		eta = clients.NewETAClient(cfg.Collaborators.ETAURL)
	}
	var escrowClient services.EscrowClient
	if cfg.Collaborators.EscrowURL != "" {
		escrowClient = clients.NewEscrowServiceClient(cfg.Collaborators.EscrowURL)
	}

	policy := services.NewPolicyStore(db, policyCache, logger)
	validator := services.NewValidator(db, policy, logger)
	offers := services.NewOfferResolver(db, logger)
	pricer := services.NewPricer(policy, offers, logger)
	ledger := services.NewWalletLedger(db, cfg.Currency, logger)
	escrow := services.NewEscrowRecorder(db, policy, escrowClient, logger)
	orders := services.NewOrderService(db, validator, pricer, ledger, gateway, notifier, eta, escrow, cfg.Currency, logger)

	orderController := controllers.NewOrderController(orders, logger)
	walletController := controllers.NewWalletController(ledger, logger)
	feeController := controllers.NewFeeSettingsController(policy, logger)
	zoneController := controllers.NewZoneController(policy, logger)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.OrderRoutes(server, orderController, cfg.JWT.Secret)
	routes.WalletRoutes(server, walletController, cfg.JWT.Secret)
	routes.AdminRoutes(server, orderController, feeController, zoneController, walletController, cfg.JWT.Secret)

	logger.Info("starting server", zap.String("addr", cfg.Server.Addr()))
	if err := server.Run(cfg.Server.Addr()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
