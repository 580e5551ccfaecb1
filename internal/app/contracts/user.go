package contracts

import (
	"clinic-appointment-service/internal/app/models"
	"context"
)

type UserRepository interface {
	// FindByID returns nil without error when no user matches.
	FindByID(ctx context.Context, userID string) (*models.User, error)
}
