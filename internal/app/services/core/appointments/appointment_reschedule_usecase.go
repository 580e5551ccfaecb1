package appointments

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func (uc *appointmentUsecase) Reschedule(ctx context.Context, actor models.Actor, request *requests.RescheduleAppointment) (result *models.Appointment, err error) {
	ctx, span := uc.startSpan(ctx, "appointmentUsecase.Reschedule",
		attribute.String("appointment.id", request.AppointmentID),
		attribute.String("appointment.new_date", request.NewDate),
		attribute.String("appointment.new_time", request.NewTime),
	)
	defer func() { endSpan(span, err) }()

	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.Reschedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.String(constvars.LoggingSlotDateKey, request.NewDate),
		zap.String(constvars.LoggingSlotTimeKey, request.NewTime),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.findAppointment(ctx, request.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParticipant(actor, appointment); err != nil {
		return nil, err
	}
	if !appointment.Status.IsReschedulable() {
		return nil, exceptions.ErrNotReschedulable(nil, appointment.Status.String())
	}

	day, scheduledAt, err := uc.parseFutureSlot(request.NewDate, request.NewTime)
	if err != nil {
		return nil, err
	}

	from := appointment.Status
	updated := cloneAppointment(appointment)
	originalDate := appointment.AppointmentDate
	updated.OriginalDate = &originalDate
	updated.OriginalTime = appointment.AppointmentTime
	updated.AppointmentDate = day
	updated.AppointmentTime = request.NewTime
	updated.ScheduledAt = scheduledAt
	updated.RescheduleReason = request.Reason
	applyTransition(updated, models.AppointmentStatusRescheduled, request.Reason, actor, uc.now())

	err = uc.withSlotLock(ctx, updated.DoctorID, day, request.NewTime, constvars.OperationReschedule, func(ctx context.Context) error {
		if err := uc.ensureSlotFree(ctx, updated.DoctorID, day, request.NewTime, updated.ID.Hex()); err != nil {
			return err
		}
		return uc.replaceAppointment(ctx, updated, appointment.Version)
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.Reschedule error moving appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
			zap.Error(err),
		)
		return nil, uc.observeConflict(err, constvars.OperationReschedule)
	}

	uc.Metrics.ObserveTransition(from, models.AppointmentStatusRescheduled)
	uc.invalidatePatientStats(ctx, updated.PatientID)
	uc.Notifier.Notify(ctx, *updated, request.Reason)

	uc.Log.Info("appointmentUsecase.Reschedule succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)
	return updated, nil
}
