package appointments

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"time"

	"go.uber.org/zap"
)

var systemActor = models.Actor{UserID: constvars.RoleSystem, Role: constvars.RoleSystem}

// AutoCancelExpired cancels every appointment still pending after its slot
// started. Each cancel is conditional on the appointment still being pending,
// so a concurrent confirmation wins.
func (uc *appointmentUsecase) AutoCancelExpired(ctx context.Context, now time.Time) (int, error) {
	requestID := utils.GetRequestID(ctx)

	candidates, err := uc.AppointmentRepository.FindPendingBefore(ctx, now, 0)
	if err != nil {
		uc.Log.Error("appointmentUsecase.AutoCancelExpired error calling AppointmentRepository.FindPendingBefore",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	cancelled := 0
	for i := range candidates {
		appointment := &candidates[i]
		appointmentID := appointment.ID.Hex()
		entry := models.NewStatusHistoryEntry(models.AppointmentStatusCancelled, constvars.AutoCancelHistoryReason, systemActor, now)

		ok, err := uc.AppointmentRepository.CancelIfPending(ctx, appointmentID, constvars.AutoCancelReason, entry)
		if err != nil {
			uc.Log.Error("appointmentUsecase.AutoCancelExpired error calling AppointmentRepository.CancelIfPending",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(err),
			)
			continue
		}
		if !ok {
			uc.Log.Debug("appointmentUsecase.AutoCancelExpired appointment no longer pending",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			)
			continue
		}

		cancelled++
		uc.Metrics.ObserveTransition(models.AppointmentStatusPending, models.AppointmentStatusCancelled)
		uc.invalidatePatientStats(ctx, appointment.PatientID)

		appointment.Status = models.AppointmentStatusCancelled
		appointment.CancellationReason = constvars.AutoCancelReason
		appointment.StatusHistory = append(appointment.StatusHistory, entry)
		appointment.Version++
		appointment.SyncSlotKey()
		uc.Notifier.Notify(ctx, *appointment, constvars.AutoCancelReason)
	}

	if cancelled > 0 {
		uc.Metrics.ObserveAutoCancelled(cancelled)
		uc.Log.Info("appointmentUsecase.AutoCancelExpired cancelled stale appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingCancelledCountKey, cancelled),
			zap.Int(constvars.LoggingAppointmentCountKey, len(candidates)),
		)
	}
	return cancelled, nil
}
