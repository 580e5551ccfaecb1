package mailer

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Publisher is the part of *amqp091.Channel the mailer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type mailerService struct {
	Log       *zap.Logger
	Publisher Publisher
	Queue     string
	From      string
	breaker   *gobreaker.CircuitBreaker[struct{}]
	limiter   *rate.Limiter
}

func NewMailerService(logger *zap.Logger, publisher Publisher, mailerConfig config.Mailer) contracts.MailerService {
	maxFailures := mailerConfig.BreakerMaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}

	limit := rate.Inf
	if mailerConfig.PublishRatePerSecond > 0 {
		limit = rate.Limit(mailerConfig.PublishRatePerSecond)
	}
	burst := mailerConfig.PublishBurst
	if burst <= 0 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "mailer-publish",
		MaxRequests: 1,
		Timeout:     mailerConfig.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mailerService breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &mailerService{
		Log:       logger,
		Publisher: publisher,
		Queue:     mailerConfig.Queue,
		From:      mailerConfig.EmailSender,
		breaker:   breaker,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

func (s *mailerService) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	requestID := utils.GetRequestID(ctx)
	if request.From == "" {
		request.From = s.From
	}

	if err := utils.ValidateStruct(request); err != nil {
		s.Log.Error("mailerService.SendEmail invalid payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrInputValidation(err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return exceptions.ErrMailerPublish(err, s.Queue)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Priority:     0,
		MessageId:    request.ReferenceID,
		Headers: amqp091.Table{
			constvars.EmailMessageTypeHeader:     constvars.EmailMessageTypeJSON,
			constvars.EmailRequeueStrategyHeader: constvars.EmailRequeueStrategyDrop,
		},
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.Publisher.PublishWithContext(ctx, "", s.Queue, false, false, message)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = errors.New(constvars.ErrDevMailerCircuitOpen)
		}
		s.Log.Error("mailerService.SendEmail error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMailerQueueKey, s.Queue),
			zap.Error(err),
		)
		return exceptions.ErrMailerPublish(err, s.Queue)
	}

	s.Log.Info("mailerService.SendEmail published",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMailerQueueKey, s.Queue),
		zap.Strings(constvars.LoggingRecipientKey, request.To),
	)
	return nil
}
