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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	checkSlotHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/check_slot"
	createAppointmentHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/create_appointment"
	createCalendarBlockHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/create_calendar_block"
	deleteCalendarBlockHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/delete_calendar_block"
	getAppointmentHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/get_available_slots"
	getBusinessHoursHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/get_business_hours"
	listAppointmentsHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/list_appointments"
	listCalendarBlocksHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/list_calendar_blocks"
	updateAppointmentStatusHandler "github.com/m04kA/atelier-scheduling/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/atelier-scheduling/internal/api/middleware"
	"github.com/m04kA/atelier-scheduling/internal/config"
	"github.com/m04kA/atelier-scheduling/internal/domain"
	appointmentRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/calendar"
	"github.com/m04kA/atelier-scheduling/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/atelier-scheduling/internal/service/appointments"
	calendarService "github.com/m04kA/atelier-scheduling/internal/service/calendar"
	createBookingUC "github.com/m04kA/atelier-scheduling/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/atelier-scheduling/internal/usecase/get_available_slots"
	"github.com/m04kA/atelier-scheduling/pkg/dbmetrics"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
	"github.com/m04kA/atelier-scheduling/pkg/metrics"
	"github.com/m04kA/atelier-scheduling/pkg/slotlock"
	"github.com/m04kA/atelier-scheduling/pkg/txmanager"
)

// rateLimiterTTL через сколько забывается неактивный IP
const rateLimiterTTL = 10 * time.Minute

// EventNotifier публикация событий о записях (RabbitMQ или заглушка)
type EventNotifier interface {
	AppointmentBooked(ctx context.Context, appt *domain.Appointment) error
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment) error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting atelier-scheduling...")
	log.Info("Configuration loaded from %s", configPath)

	// Рабочие часы и сетка слотов загружаются один раз и дальше не меняются
	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone: %v", err)
	}
	hours, err := cfg.Hours()
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}
	policy := cfg.SlotPolicy()
	log.Info("Scheduling: timezone=%s, slot=%dm, buffer=%dm, days=%d",
		location, policy.DurationMinutes, policy.BufferMinutes, len(hours.Days()))

	// Инициализируем метрики (если включены)
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обертка просто проксирует вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	// Реплика для чтения сетки слотов (опционально)
	var reader dbmetrics.DBExecutor
	if cfg.Database.ReplicaDSN != "" {
		replica, err := sql.Open("postgres", cfg.Database.ReplicaDSN)
		if err != nil {
			log.Fatal("Failed to open replica: %v", err)
		}
		defer replica.Close()

		replica.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		replica.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		replica.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := replica.Ping(); err != nil {
			log.Fatal("Failed to ping replica: %v", err)
		}
		reader = dbmetrics.Wrap(replica, metricsCollector)
		log.Info("Read replica enabled for slot queries")
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, reader)
	calendarRepository := calendarRepo.NewRepository(wrappedDB, reader)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка рабочего дня: Redis для нескольких инстансов, иначе в памяти процесса
	var locker slotlock.Locker
	var redisClient *redis.Client

	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		locker = slotlock.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix, cfg.LockOptions())
		log.Info("Redis slot lock enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = slotlock.NewLocalLocker(cfg.LockOptions())
		log.Info("In-process slot lock enabled")
	}

	// Публикация событий о записях
	var events EventNotifier = notifier.Nop{}
	var closeBroker func()

	if cfg.RabbitMQ.Enabled {
		conn, ch, err := notifier.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		closeBroker = func() {
			ch.Close()
			conn.Close()
		}

		events = notifier.NewPublisher(ch, cfg.RabbitMQ.Queue,
			time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second, log)
		log.Info("RabbitMQ notifier enabled (queue=%s)", cfg.RabbitMQ.Queue)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txMgr, events, log)
	calendarSvc := calendarService.NewService(calendarRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		txMgr,
		locker,
		events,
		hours,
		policy,
		location,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		hours,
		policy,
		location,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(hours, policy, location, log)
	checkSlot := checkSlotHandler.NewHandler(createBookingUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, location, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	createCalendarBlock := createCalendarBlockHandler.NewHandler(calendarSvc, log)
	listCalendarBlocks := listCalendarBlocksHandler.NewHandler(calendarSvc, location, log)
	deleteCalendarBlock := deleteCalendarBlockHandler.NewHandler(calendarSvc, log)

	// Ограничение частоты для путей записи
	limited := func(h http.Handler) http.Handler { return h }
	if cfg.Scheduling.BookingRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Scheduling.BookingRateLimit, cfg.Scheduling.BookingRateBurst, rateLimiterTTL)
		limited = limiter.Limit
		log.Info("Booking rate limit enabled: %.2f rps, burst %d", cfg.Scheduling.BookingRateLimit, cfg.Scheduling.BookingRateBurst)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (X-User-ID опционален)
	// ============================================================

	// Сетка слотов на дату
	api.Handle("/available-slots",
		middleware.OptionalAuth(http.HandlerFunc(getAvailableSlots.Handle))).Methods(http.MethodGet)

	// Рабочие часы бутика
	api.HandleFunc("/business-hours", getBusinessHours.Handle).Methods(http.MethodGet)

	// Проверка интервала без бронирования
	api.Handle("/appointments/check",
		limited(http.HandlerFunc(checkSlot.Handle))).Methods(http.MethodPost)

	// Запись клиента
	api.Handle("/appointments",
		limited(middleware.OptionalAuth(http.HandlerFunc(createAppointment.Handle)))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := func(h http.HandlerFunc) http.Handler { return middleware.Auth(h) }

	// --- Записи ---
	api.Handle("/appointments", protected(listAppointments.Handle)).Methods(http.MethodGet)
	api.Handle("/appointments/{appointmentId:[0-9]+}", protected(getAppointment.Handle)).Methods(http.MethodGet)
	api.Handle("/appointments/{appointmentId:[0-9]+}/status", protected(updateAppointmentStatus.Handle)).Methods(http.MethodPatch)

	// --- Календарь сотрудника ---
	api.Handle("/calendar/blocks", protected(listCalendarBlocks.Handle)).Methods(http.MethodGet)
	api.Handle("/calendar/blocks", protected(createCalendarBlock.Handle)).Methods(http.MethodPost)
	api.Handle("/calendar/blocks/{blockId:[0-9]+}", protected(deleteCalendarBlock.Handle)).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if closeBroker != nil {
		closeBroker()
		log.Info("RabbitMQ connection closed")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
