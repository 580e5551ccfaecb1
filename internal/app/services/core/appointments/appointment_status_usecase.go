package appointments

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// patientTargets are the statuses a patient may request on their own booking.
var patientTargets = []models.AppointmentStatus{
	models.AppointmentStatusCancelled,
	models.AppointmentStatusPending,
}

func (uc *appointmentUsecase) ChangeStatus(ctx context.Context, actor models.Actor, request *requests.UpdateAppointmentStatus) (result *models.Appointment, err error) {
	ctx, span := uc.startSpan(ctx, "appointmentUsecase.ChangeStatus",
		attribute.String("appointment.id", request.AppointmentID),
		attribute.String("appointment.target_status", request.Status),
	)
	defer func() { endSpan(span, err) }()

	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ChangeStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.String(constvars.LoggingToStatusKey, request.Status),
		zap.String(constvars.LoggingActorIDKey, actor.UserID),
		zap.String(constvars.LoggingActorRoleKey, actor.Role),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.findAppointment(ctx, request.AppointmentID)
	if err != nil {
		return nil, err
	}

	target, ok := models.ParseAppointmentStatus(request.Status)
	if !ok {
		return nil, exceptions.ErrInvalidStatus(nil, request.Status)
	}

	if err := authorizeParticipant(actor, appointment); err != nil {
		return nil, err
	}

	from := appointment.Status
	if !from.CanTransitionTo(target) {
		uc.Log.Info("appointmentUsecase.ChangeStatus rejected illegal transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFromStatusKey, from.String()),
			zap.String(constvars.LoggingToStatusKey, target.String()),
		)
		return nil, exceptions.ErrIllegalTransition(nil, from.String(), target.String())
	}

	if err := authorizeTarget(actor, target); err != nil {
		return nil, err
	}

	updated := cloneAppointment(appointment)
	applyTransition(updated, target, request.Reason, actor, uc.now())

	persist := func(ctx context.Context) error {
		return uc.replaceAppointment(ctx, updated, appointment.Version)
	}
	if from.ReoccupiesSlot(target) {
		err = uc.withSlotLock(ctx, updated.DoctorID, updated.AppointmentDate, updated.AppointmentTime, constvars.OperationTransition, func(ctx context.Context) error {
			if err := uc.ensureSlotFree(ctx, updated.DoctorID, updated.AppointmentDate, updated.AppointmentTime, updated.ID.Hex()); err != nil {
				return err
			}
			return persist(ctx)
		})
	} else {
		err = persist(ctx)
	}
	if err != nil {
		uc.Log.Error("appointmentUsecase.ChangeStatus error persisting transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
			zap.Error(err),
		)
		return nil, uc.observeConflict(err, constvars.OperationTransition)
	}

	uc.Metrics.ObserveTransition(from, target)
	uc.invalidatePatientStats(ctx, updated.PatientID)
	uc.Notifier.Notify(ctx, *updated, request.Reason)

	uc.Log.Info("appointmentUsecase.ChangeStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.String(constvars.LoggingFromStatusKey, from.String()),
		zap.String(constvars.LoggingToStatusKey, target.String()),
	)
	return updated, nil
}

// applyTransition moves appointment to target and appends exactly one history entry.
func applyTransition(appointment *models.Appointment, target models.AppointmentStatus, reason string, actor models.Actor, now time.Time) {
	from := appointment.Status
	appointment.Status = target
	switch {
	case target == models.AppointmentStatusCancelled:
		appointment.CancellationReason = reason
	case from == models.AppointmentStatusCancelled:
		appointment.CancellationReason = ""
	}
	appointment.StatusHistory = append(appointment.StatusHistory, models.NewStatusHistoryEntry(target, reason, actor, now))
	appointment.SyncSlotKey()
	appointment.SetUpdatedAt(now)
}

// replaceAppointment writes appointment only if nobody else wrote it since it was read.
func (uc *appointmentUsecase) replaceAppointment(ctx context.Context, appointment *models.Appointment, expectedVersion int64) error {
	replaced, err := uc.AppointmentRepository.ReplaceIfVersion(ctx, appointment, expectedVersion)
	if err != nil {
		return err
	}
	if !replaced {
		return exceptions.ErrConcurrentModification(nil, appointment.ID.Hex())
	}
	return nil
}

func cloneAppointment(appointment *models.Appointment) *models.Appointment {
	clone := *appointment
	clone.StatusHistory = make([]models.StatusHistoryEntry, len(appointment.StatusHistory), len(appointment.StatusHistory)+1)
	copy(clone.StatusHistory, appointment.StatusHistory)
	return &clone
}

// authorizeTarget limits patients to the statuses they may request.
func authorizeTarget(actor models.Actor, target models.AppointmentStatus) error {
	if actor.Role != constvars.RolePatient {
		return nil
	}
	for _, allowed := range patientTargets {
		if allowed == target {
			return nil
		}
	}
	return exceptions.ErrRoleNotAllowed(nil, actor.Role)
}
