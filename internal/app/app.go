package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargehub/internal/config"
	"chargehub/internal/db"
	httpserver "chargehub/internal/http"
	"chargehub/internal/http/handlers"
	"chargehub/internal/mailer"
	"chargehub/internal/metrics"
	"chargehub/internal/otp"
	"chargehub/internal/redisclient"
	"chargehub/internal/repository"
	"chargehub/internal/service"
	"chargehub/internal/ws"
)

// App wires chargehub dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisclient.New(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	metrics.MustRegister()

	userRepo := repository.NewUserRepository()
	vehicleRepo := repository.NewVehicleRepository()
	stationRepo := repository.NewStationRepository()
	reservationRepo := repository.NewReservationRepository()
	sessionRepo := repository.NewSessionRepository()
	subscriptionRepo := repository.NewSubscriptionRepository()
	billingRepo := repository.NewBillingRepository()
	maintenanceRepo := repository.NewMaintenanceRepository()
	txRunner := repository.NewTxRunner(sqlDB)

	hub := ws.NewHub(logger)

	otpStore := otp.NewStore(redisClient, cfg.OTPTTL(), cfg.RegistrationTTL())
	mailSender := mailer.New(mailer.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	}, logger)
	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())

	authService := service.NewAuthService(sqlDB, txRunner, userRepo, vehicleRepo, billingRepo, otpStore, mailSender, tokenService, logger)
	vehicleService := service.NewVehicleService(sqlDB, vehicleRepo, logger)
	stationService := service.NewStationService(sqlDB, stationRepo, maintenanceRepo, hub, logger)
	reservationService := service.NewReservationService(sqlDB, reservationRepo, stationRepo, logger)
	subscriptionService := service.NewSubscriptionService(sqlDB, subscriptionRepo, logger)
	paymentService := service.NewPaymentService(sqlDB, txRunner, billingRepo, reservationRepo, logger)
	chargingService := service.NewChargingService(
		sqlDB,
		txRunner,
		reservationRepo,
		sessionRepo,
		stationRepo,
		subscriptionService,
		billingRepo,
		paymentService,
		hub,
		logger,
	)

	routes := httpserver.Routes{
		LoginRequest: handlers.NewLoginRequestHandler(authService),
		LoginVerify:  handlers.NewLoginVerifyHandler(authService),
		Signup:       handlers.NewSignupHandler(authService),
		SignupVerify: handlers.NewSignupVerifyHandler(authService),
		ResendCode:   handlers.NewResendCodeHandler(authService),
		Stations:     handlers.NewStationsHandler(stationService),
		StationByID:  handlers.NewStationDetailHandler(stationService),
		StationCPs:   handlers.NewStationChargePointsHandler(stationService),
		Health:       handlers.NewHealthHandler(),

		Profile:           handlers.NewProfileHandler(authService),
		VehiclesMe:        handlers.NewVehiclesMeHandler(vehicleService),
		VehicleByID:       handlers.NewVehicleDetailHandler(vehicleService),
		VehicleCreate:     handlers.NewVehicleCreateHandler(vehicleService),
		VehicleUpdate:     handlers.NewVehicleUpdateHandler(vehicleService),
		VehicleDelete:     handlers.NewVehicleDeleteHandler(vehicleService),
		ReservationsMe:    handlers.NewReservationsMeHandler(reservationService),
		ReservationBook:   handlers.NewReservationBookHandler(reservationService),
		ReservationCancel: handlers.NewReservationCancelHandler(reservationService),
		SessionStart:      handlers.NewSessionStartHandler(chargingService),
		SessionStop:       handlers.NewSessionStopHandler(chargingService),
		SessionsMe:        handlers.NewSessionsMeHandler(chargingService),
		ActiveSession:     handlers.NewActiveSessionHandler(chargingService),
		SessionByID:       handlers.NewSessionDetailHandler(chargingService),
		InvoicesMe:        handlers.NewInvoicesMeHandler(paymentService),
		PaymentMethodsMe:  handlers.NewPaymentMethodsMeHandler(paymentService),
		PaymentComplete:   handlers.NewPaymentCompleteHandler(paymentService),
		Plans:             handlers.NewPlansHandler(subscriptionService),
		SubscriptionMe:    handlers.NewSubscriptionMeHandler(subscriptionService),

		ChargePointStatus:  handlers.NewChargePointStatusHandler(stationService),
		StationMaintenance: handlers.NewStationMaintenanceHandler(stationService),
		StatusFeed:         handlers.NewStatusFeedHandler(hub),
	}

	router := httpserver.NewRouter(routes, tokenService)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the websocket hub and the HTTP server, returning when ctx is
// cancelled and the server has drained.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
