package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	billingPreviewHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/billing_preview"
	cancelReservationHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/cancel_reservation"
	cancelSeriesHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/cancel_series"
	checkConflictsHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/check_conflicts"
	createNameRuleHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/create_name_rule"
	createReservationHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/get_availability"
	getReservationHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/get_reservation"
	getSeriesHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/get_series"
	listResourcesHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/list_resources"
	listUserReservationsHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/list_user_reservations"
	reconcileHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/reconcile_access_log"
	renewSeriesHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/renew_series"
	updateResourceHandler "github.com/m04kA/SMC-ConsultorioService/internal/api/handlers/update_resource"
	"github.com/m04kA/SMC-ConsultorioService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultorioService/internal/config"
	accessRuleRepo "github.com/m04kA/SMC-ConsultorioService/internal/infra/storage/accessrule"
	reservationRepo "github.com/m04kA/SMC-ConsultorioService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-ConsultorioService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ConsultorioService/internal/integrations/notifier"
	userServiceClient "github.com/m04kA/SMC-ConsultorioService/internal/integrations/userservice"
	billingService "github.com/m04kA/SMC-ConsultorioService/internal/service/billing"
	cancellationService "github.com/m04kA/SMC-ConsultorioService/internal/service/cancellation"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/conflicts"
	reconciliationService "github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/recurrence"
	reservationsService "github.com/m04kA/SMC-ConsultorioService/internal/service/reservations"
	resourcesService "github.com/m04kA/SMC-ConsultorioService/internal/service/resources"
	createBookingUC "github.com/m04kA/SMC-ConsultorioService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-ConsultorioService/internal/usecase/get_availability"
	renewSeriesUC "github.com/m04kA/SMC-ConsultorioService/internal/usecase/renew_series"
	"github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
	"github.com/m04kA/SMC-ConsultorioService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultorioService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ConsultorioService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}
	openingHours, err := cfg.Booking.OpeningHours()
	if err != nil {
		log.Fatal("Invalid opening hours: %v", err)
	}
	policy := cfg.Booking.Policy()
	log.Info("Booking rules: timezone=%s, hours=%s-%s, penalty_window=%s, reschedule_grace_days=%d, default_horizon_months=%d",
		location, cfg.Booking.OpenTime, cfg.Booking.CloseTime,
		policy.PenaltyWindow, policy.RescheduleGraceDays, cfg.Booking.DefaultHorizonMonths)

	// Метрики (nil - выключены; все потребители это допускают)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	resourceRepository := resourceRepo.NewRepository(wrappedDB)
	accessRuleRepository := accessRuleRepo.NewRepository(wrappedDB)

	// События в Redis Stream; без адреса публикация выключена
	var events notifier.Notifier
	var asyncEvents *notifier.Async
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis not available at %s, events will be retried per publish: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		asyncEvents = notifier.NewAsync(
			notifier.NewPublisher(redisClient, cfg.Redis.Stream, cfg.Redis.StreamMaxLen),
			time.Duration(cfg.Redis.NotifyTimeout)*time.Second,
			log,
		)
		events = asyncEvents
		log.Info("Event publishing enabled (redis=%s, stream=%s)", cfg.Redis.Addr, cfg.Redis.Stream)
	} else {
		log.Warn("Redis address is empty, event publishing disabled")
	}

	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("User service client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Сервисы
	checker := conflicts.NewChecker(reservationRepository, log)
	generator := recurrence.NewGenerator(location)

	tiers := make([]billingService.DiscountTier, 0, len(cfg.Billing.DiscountTiers))
	for _, t := range cfg.Billing.DiscountTiers {
		tiers = append(tiers, billingService.DiscountTier{MinBookings: t.MinBookings, Percent: t.Percent})
	}

	reservationsSvc := reservationsService.NewService(reservationRepository, log)
	resourcesSvc := resourcesService.NewService(resourceRepository, log)
	cancellationSvc := cancellationService.NewService(
		reservationRepository,
		txManager,
		events,
		metricsCollector,
		&cancellationService.RealTimeProvider{},
		policy,
		log,
	)
	billingSvc := billingService.NewService(
		reservationRepository,
		resourceRepository,
		txManager,
		billingService.NewVolumeDiscount(tiers),
		&billingService.RealTimeProvider{},
		location,
		log,
	)
	reconciliationSvc := reconciliationService.NewService(
		reservationRepository,
		accessRuleRepository,
		userClient,
		txManager,
		events,
		&reconciliationService.RealTimeProvider{},
		cfg.Reconciliation.Tolerance(),
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		userClient,
		checker,
		generator,
		txManager,
		events,
		metricsCollector,
		&createBookingUC.RealTimeProvider{},
		cfg.Booking.DefaultHorizonMonths,
		log,
	)
	renewSeriesUseCase := renewSeriesUC.NewUseCase(
		reservationRepository,
		checker,
		generator,
		txManager,
		events,
		metricsCollector,
		cfg.Booking.DefaultHorizonMonths,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		openingHours,
		&getAvailabilityUC.RealTimeProvider{},
		log,
	)

	// Handlers
	createReservation := createReservationHandler.NewHandler(createBookingUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancellationSvc, log)
	getSeries := getSeriesHandler.NewHandler(reservationsSvc, log)
	listUserReservations := listUserReservationsHandler.NewHandler(reservationsSvc, log)
	cancelSeries := cancelSeriesHandler.NewHandler(cancellationSvc, log)
	renewSeries := renewSeriesHandler.NewHandler(renewSeriesUseCase, log)
	checkConflicts := checkConflictsHandler.NewHandler(checker, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	billingPreview := billingPreviewHandler.NewHandler(billingSvc, log)
	reconcile := reconcileHandler.NewHandler(reconciliationSvc, log)
	createNameRule := createNameRuleHandler.NewHandler(reconciliationSvc, log)
	listResources := listResourcesHandler.NewHandler(resourcesSvc, log)
	updateResource := updateResourceHandler.NewHandler(resourcesSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Рекомендательная проверка пересечений для календаря
	api.HandleFunc("/conflicts/check", checkConflicts.Handle).Methods(http.MethodPost)
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Консультории ---
	protected.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/resources/{resourceId}", updateResource.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Серии ---
	protected.HandleFunc("/series/{recurrenceId}", getSeries.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/series/{recurrenceId}/cancel", cancelSeries.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/series/{recurrenceId}/renew", renewSeries.Handle).Methods(http.MethodPost)

	// --- Счета ---
	protected.HandleFunc("/users/{userId}/reservations", listUserReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/billing-preview", billingPreview.Handle).Methods(http.MethodGet)

	// --- Журнал доступа (администратор) ---
	protected.HandleFunc("/admin/access-logs/reconcile", reconcile.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/access-logs/rules", createNameRule.Handle).Methods(http.MethodPost)

	// CORS оборачивает весь роутер: preflight OPTIONS не совпадает ни с одним маршрутом
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserRole},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся событий, отправленных в фоне
	if asyncEvents != nil {
		asyncEvents.Wait()
	}

	log.Info("Server stopped gracefully")
}
