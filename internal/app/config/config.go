package config

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "clinic"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Tracing: Tracing{
			Enabled:    utils.GetEnvBool("TRACING_ENABLED", false),
			Endpoint:   utils.GetEnvString("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: utils.GetEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:             utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:            utils.GetEnvString("APP_PORT", ":8080"),
			Version:         utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:        utils.GetEnvString("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
			EndpointPrefix:  utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			ServiceName:     utils.GetEnvString("APP_SERVICE_NAME", "clinic_appointment"),
			AllowedOrigins:  utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
			MaxRequests:     utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeout: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Scheduler: Scheduler{
			AutoCancelEnabled:  utils.GetEnvBool("SCHEDULER_AUTO_CANCEL_ENABLED", true),
			AutoCancelCronSpec: utils.GetEnvString("SCHEDULER_AUTO_CANCEL_CRON_SPEC", constvars.DefaultAutoCancelCronSpec),
			LeaderLockTTL:      utils.GetEnvDuration("SCHEDULER_LEADER_LOCK_TTL", 50*time.Second),
		},
		Mailer: Mailer{
			Queue:                utils.GetEnvString("MAILER_RABBITMQ_QUEUE", "clinic.email"),
			EmailSender:          utils.GetEnvString("MAILER_EMAIL_SENDER", "no-reply@clinic.local"),
			BreakerMaxFailures:   utils.GetEnvInt("MAILER_BREAKER_MAX_FAILURES", 5),
			BreakerOpenTimeout:   utils.GetEnvDuration("MAILER_BREAKER_OPEN_TIMEOUT", 30*time.Second),
			PublishRatePerSecond: utils.GetEnvFloat("MAILER_PUBLISH_RATE_PER_SECOND", 20),
			PublishBurst:         utils.GetEnvInt("MAILER_PUBLISH_BURST", 40),
		},
		Notification: Notification{
			Enabled:     utils.GetEnvBool("NOTIFICATION_ENABLED", true),
			SendTimeout: utils.GetEnvDuration("NOTIFICATION_SEND_TIMEOUT", 5*time.Second),
		},
		Storage: Storage{
			MedicalReportBucket: utils.GetEnvString("STORAGE_MEDICAL_REPORT_BUCKET", "medical-reports"),
			ArchiveEnabled:      utils.GetEnvBool("STORAGE_ARCHIVE_ENABLED", true),
		},
		Appointment: Appointment{
			SlotLockTTL:   utils.GetEnvDuration("APPOINTMENT_SLOT_LOCK_TTL", constvars.DefaultSlotLockTTL),
			StatsCacheTTL: utils.GetEnvDuration("APPOINTMENT_STATS_CACHE_TTL", constvars.DefaultUserStatsCacheTTL),
			AllowPastSlot: utils.GetEnvBool("APPOINTMENT_ALLOW_PAST_SLOT", false),
		},
	}
}
