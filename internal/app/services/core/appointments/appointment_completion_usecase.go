package appointments

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

func (uc *appointmentUsecase) Rate(ctx context.Context, actor models.Actor, request *requests.RateAppointment) (result *models.Appointment, err error) {
	ctx, span := uc.startSpan(ctx, "appointmentUsecase.Rate",
		attribute.String("appointment.id", request.AppointmentID),
	)
	defer func() { endSpan(span, err) }()

	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.Rate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.findAppointment(ctx, request.AppointmentID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != appointment.PatientID {
		return nil, exceptions.ErrNotAppointmentParticipant(nil, actor.UserID, request.AppointmentID)
	}
	if appointment.Status != models.AppointmentStatusCompleted {
		return nil, exceptions.ErrNotCompleted(nil, appointment.Status.String())
	}
	if request.Rating < minRating || request.Rating > maxRating {
		return nil, exceptions.ErrInvalidRating(nil, request.Rating)
	}

	// an existing rating is overwritten while the appointment stays completed
	updated := cloneAppointment(appointment)
	rating := request.Rating
	updated.Rating = &rating
	updated.Review = request.Review
	updated.SetUpdatedAt(uc.now())

	if err := uc.replaceAppointment(ctx, updated, appointment.Version); err != nil {
		uc.Log.Error("appointmentUsecase.Rate error calling AppointmentRepository.ReplaceIfVersion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.Rate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)
	return updated, nil
}

func (uc *appointmentUsecase) SubmitMedicalReport(ctx context.Context, actor models.Actor, request *requests.SubmitMedicalReport) (result *models.Appointment, err error) {
	ctx, span := uc.startSpan(ctx, "appointmentUsecase.SubmitMedicalReport",
		attribute.String("appointment.id", request.AppointmentID),
	)
	defer func() { endSpan(span, err) }()

	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.SubmitMedicalReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.String(constvars.LoggingActorIDKey, actor.UserID),
	)

	if actor.Role != constvars.RoleDoctor {
		return nil, exceptions.ErrRoleNotAllowed(nil, actor.Role)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.findAppointment(ctx, request.AppointmentID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != appointment.DoctorID {
		return nil, exceptions.ErrDoctorNotAssignedToReport(nil, actor.UserID, request.AppointmentID)
	}
	if appointment.Status != models.AppointmentStatusCompleted {
		return nil, exceptions.ErrNotCompleted(nil, appointment.Status.String())
	}
	if missing := missingReportFields(request); len(missing) > 0 {
		return nil, exceptions.ErrMissingFields(nil, missing)
	}

	now := uc.now()
	prescription := make([]models.PrescriptionItem, 0, len(request.Prescription))
	for _, item := range request.Prescription {
		prescription = append(prescription, models.PrescriptionItem{
			Medicine: item.Medicine,
			Dosage:   item.Dosage,
			Duration: item.Duration,
		})
	}

	updated := cloneAppointment(appointment)
	updated.MedicalReport = &models.MedicalReport{
		Condition:       strings.TrimSpace(request.Condition),
		TreatmentMethod: strings.TrimSpace(request.TreatmentMethod),
		Prescription:    prescription,
		Notes:           request.Notes,
		SubmittedBy:     actor.UserID,
		SubmittedAt:     now,
	}
	updated.SetUpdatedAt(now)

	if err := uc.replaceAppointment(ctx, updated, appointment.Version); err != nil {
		uc.Log.Error("appointmentUsecase.SubmitMedicalReport error calling AppointmentRepository.ReplaceIfVersion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.archiveMedicalReport(ctx, updated)

	uc.Log.Info("appointmentUsecase.SubmitMedicalReport succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)
	return updated, nil
}

func missingReportFields(request *requests.SubmitMedicalReport) []string {
	var missing []string
	if strings.TrimSpace(request.Condition) == "" {
		missing = append(missing, "condition")
	}
	if strings.TrimSpace(request.TreatmentMethod) == "" {
		missing = append(missing, "treatmentMethod")
	}
	return missing
}

// archiveMedicalReport keeps a copy of the report in object storage. The stored
// appointment is the source of truth, so failures are only logged.
func (uc *appointmentUsecase) archiveMedicalReport(ctx context.Context, appointment *models.Appointment) {
	if uc.Storage == nil || !uc.InternalConfig.Storage.ArchiveEnabled {
		return
	}

	bucketName := uc.InternalConfig.Storage.MedicalReportBucket
	objectName := fmt.Sprintf(constvars.MedicalReportObjectName, appointment.PatientID, appointment.ID.Hex())
	if _, err := uc.Storage.UploadJSON(ctx, bucketName, objectName, toMedicalReportResponse(appointment)); err != nil {
		uc.Log.Warn("appointmentUsecase.archiveMedicalReport error calling Storage.UploadJSON",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBucketNameKey, bucketName),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
	}
}
