package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	TracerProvider *sdktrace.TracerProvider
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop stops the auto-cancellation scheduler
	WorkerStop func()
	// NotificationDrain waits for in-flight notifications
	NotificationDrain func(ctx context.Context)
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped auto-cancel worker")
	}

	if b.NotificationDrain != nil {
		b.NotificationDrain(ctx)
		log.Println("Successfully drained pending notifications")
	}

	if b.TracerProvider != nil {
		if err := b.TracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		log.Println("Successfully flushed tracer provider")
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			return err
		}
		log.Println("Successfully closing MongoDB")
	}

	// zap returns an error syncing stdout on some platforms
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
