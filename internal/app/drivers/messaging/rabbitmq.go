package messaging

import (
	"clinic-appointment-service/internal/app/config"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func NewRabbitMQ(driverConfig *config.DriverConfig, log *zap.Logger) *amqp091.Connection {
	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		driverConfig.RabbitMQ.Username,
		driverConfig.RabbitMQ.Password,
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
	)
	conn, err := amqp091.Dial(connectionString)
	if err != nil {
		log.Fatal("Failed to connect to rabbitMQ", zap.Error(err))
	}
	log.Info("Successfully connected to rabbitMQ")
	return conn
}

// DeclareDurableQueue opens a channel and makes sure the queue exists.
func DeclareDurableQueue(conn *amqp091.Connection, queue string) (*amqp091.Channel, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, err
	}
	return channel, nil
}
