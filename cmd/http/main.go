package main

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/delivery/http/controllers"
	"clinic-appointment-service/internal/app/delivery/http/middlewares"
	"clinic-appointment-service/internal/app/delivery/http/routers"
	"clinic-appointment-service/internal/app/drivers/database"
	"clinic-appointment-service/internal/app/drivers/logger"
	"clinic-appointment-service/internal/app/drivers/messaging"
	"clinic-appointment-service/internal/app/drivers/storage"
	"clinic-appointment-service/internal/app/drivers/tracer"
	"clinic-appointment-service/internal/app/services/core/appointments"
	"clinic-appointment-service/internal/app/services/core/clinics"
	"clinic-appointment-service/internal/app/services/core/users"
	"clinic-appointment-service/internal/app/services/shared/locker"
	"clinic-appointment-service/internal/app/services/shared/mailer"
	"clinic-appointment-service/internal/app/services/shared/metrics"
	"clinic-appointment-service/internal/app/services/shared/redis"
	minioStorage "clinic-appointment-service/internal/app/services/shared/storage"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.String("timezone", internalConfig.App.Timezone), zap.Error(err))
	}
	time.Local = location

	tracerProvider, err := tracer.NewTracerProvider(driverConfig, internalConfig)
	if err != nil {
		log.Fatal("Error initializing tracer provider", zap.Error(err))
	}

	mongoDB := database.NewMongoDB(driverConfig, log)
	redisClient := database.NewRedisClient(driverConfig, log)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig, log)
	minioClient := storage.NewMinio(driverConfig, log)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		TracerProvider: tracerProvider,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap, location)

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           chiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started", zap.String("addr", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, location *time.Location) {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry, internalConfig.App.ServiceName)

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)

	// Repositories
	appointmentRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, dbName)
	userRepository := users.NewUserMongoRepository(bootstrap.MongoDB, dbName)
	clinicRepository := clinics.NewClinicMongoRepository(bootstrap.MongoDB, dbName)

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := appointmentRepository.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("Error creating appointment indexes", zap.Error(err))
	}

	// Medical report archive
	var archive contracts.Storage
	if internalConfig.Storage.ArchiveEnabled {
		if err := storage.EnsureBucket(indexCtx, bootstrap.Minio, internalConfig.Storage.MedicalReportBucket); err != nil {
			log.Warn("Medical report archive disabled, bucket unavailable",
				zap.String("bucket", internalConfig.Storage.MedicalReportBucket),
				zap.Error(err),
			)
		} else {
			archive = minioStorage.NewMinioStorage(bootstrap.Minio)
		}
	}

	// Mailer
	mailerChannel, err := messaging.DeclareDurableQueue(bootstrap.RabbitMQ, internalConfig.Mailer.Queue)
	if err != nil {
		log.Fatal("Error declaring mailer queue", zap.String("queue", internalConfig.Mailer.Queue), zap.Error(err))
	}
	mailerService := mailer.NewMailerService(log, mailerChannel, internalConfig.Mailer)

	// Appointments
	notifier := appointments.NewStatusNotifier(log, mailerService, userRepository, collector, internalConfig.Notification)
	bootstrap.NotificationDrain = notifier.Drain

	appointmentUsecase := appointments.NewAppointmentUsecase(
		appointmentRepository,
		userRepository,
		clinicRepository,
		lockService,
		redisRepository,
		archive,
		notifier,
		collector,
		internalConfig,
		location,
		log,
	)
	appointmentController := controllers.NewAppointmentController(log, appointmentUsecase)

	if internalConfig.Scheduler.AutoCancelEnabled {
		worker := appointments.NewWorker(log, internalConfig.Scheduler, lockService, appointmentUsecase)
		worker.Start(context.Background())
		bootstrap.WorkerStop = worker.Stop
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, internalConfig, collector)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, metrics.MetricsHandler(registry), appointmentController)
}
