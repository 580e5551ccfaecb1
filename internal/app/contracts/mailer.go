package contracts

import (
	"clinic-appointment-service/internal/pkg/dto/requests"
	"context"
)

type MailerService interface {
	SendEmail(ctx context.Context, request *requests.EmailPayload) error
}
