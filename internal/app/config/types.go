package config

import "time"

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
		Tracing  Tracing
	}

	InternalConfig struct {
		App          App
		JWT          JWT
		Scheduler    Scheduler
		Mailer       Mailer
		Notification Notification
		Storage      Storage
		Appointment  Appointment
	}

	App struct {
		Env             string
		Port            string
		Version         string
		Timezone        string
		EndpointPrefix  string
		ServiceName     string
		AllowedOrigins  []string
		MaxRequests     int
		ShutdownTimeout int
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}

	Tracing struct {
		Enabled    bool
		Endpoint   string
		SampleRate float64
	}

	JWT struct {
		Secret string
	}

	Scheduler struct {
		AutoCancelEnabled  bool
		AutoCancelCronSpec string
		LeaderLockTTL      time.Duration
	}

	Mailer struct {
		Queue                string
		EmailSender          string
		BreakerMaxFailures   int
		BreakerOpenTimeout   time.Duration
		PublishRatePerSecond float64
		PublishBurst         int
	}

	Notification struct {
		Enabled     bool
		SendTimeout time.Duration
	}

	Storage struct {
		MedicalReportBucket string
		ArchiveEnabled      bool
	}

	Appointment struct {
		SlotLockTTL   time.Duration
		StatsCacheTTL time.Duration
		AllowPastSlot bool
	}
)
