package contracts

import (
	"clinic-appointment-service/internal/app/models"
	"context"
)

type ClinicRepository interface {
	// FindByID returns nil without error when no clinic matches.
	FindByID(ctx context.Context, clinicID string) (*models.Clinic, error)
}
