package appointments

import (
	"bytes"
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"go.uber.org/zap"
)

var _ contracts.AppointmentNotifier = (*StatusNotifier)(nil)

var statusEmailTemplate = template.Must(template.New("appointment-status").Parse(constvars.EmailAppointmentStatusTemplate))

type statusEmailData struct {
	PatientName string
	ClinicName  string
	Date        string
	Time        string
	Status      string
	Reason      string
}

// StatusNotifier emails the patient after a status change. Delivery runs on its
// own goroutine and failures never reach the caller.
type StatusNotifier struct {
	Log            *zap.Logger
	MailerService  contracts.MailerService
	UserRepository contracts.UserRepository
	Metrics        contracts.AppointmentMetrics
	Config         config.Notification
	wg             sync.WaitGroup
}

func NewStatusNotifier(logger *zap.Logger, mailerService contracts.MailerService, userRepository contracts.UserRepository, metrics contracts.AppointmentMetrics, notificationConfig config.Notification) *StatusNotifier {
	return &StatusNotifier{
		Log:            logger,
		MailerService:  mailerService,
		UserRepository: userRepository,
		Metrics:        metrics,
		Config:         notificationConfig,
	}
}

func (n *StatusNotifier) Notify(ctx context.Context, appointment models.Appointment, reason string) {
	if !n.Config.Enabled || n.MailerService == nil {
		return
	}

	requestID := utils.GetRequestID(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, requestID)
		if n.Config.SendTimeout > 0 {
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(sendCtx, n.Config.SendTimeout)
			defer cancel()
		}

		result := constvars.NotificationResultSent
		if err := n.send(sendCtx, appointment, reason); err != nil {
			result = constvars.NotificationResultFailed
			if errors.Is(err, errNoRecipient) {
				result = constvars.NotificationResultSkipped
			}
			n.Log.Warn("statusNotifier.Notify error sending status email",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
				zap.String(constvars.LoggingToStatusKey, appointment.Status.String()),
				zap.Error(err),
			)
		}
		n.Metrics.ObserveNotification(result)
	}()
}

var errNoRecipient = errors.New("patient has no registered email")

func (n *StatusNotifier) send(ctx context.Context, appointment models.Appointment, reason string) error {
	patient, err := n.UserRepository.FindByID(ctx, appointment.PatientID)
	if err != nil {
		return err
	}
	if patient == nil || patient.Email == "" {
		return errNoRecipient
	}

	var body bytes.Buffer
	err = statusEmailTemplate.Execute(&body, statusEmailData{
		PatientName: patient.FullName,
		ClinicName:  appointment.ClinicName,
		Date:        appointment.DateLabel(),
		Time:        appointment.AppointmentTime,
		Status:      appointment.Status.String(),
		Reason:      reason,
	})
	if err != nil {
		return err
	}

	return n.MailerService.SendEmail(ctx, &requests.EmailPayload{
		Subject:     fmt.Sprintf(constvars.EmailSubjectAppointmentStatusFormat, appointment.Status),
		To:          []string{patient.Email},
		HTMLCode:    body.String(),
		Category:    constvars.ResourceAppointments,
		ReferenceID: fmt.Sprintf("%s-%d", appointment.ID.Hex(), appointment.Version),
	})
}

// Drain blocks until in-flight notifications finish or ctx is done.
func (n *StatusNotifier) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		n.Log.Warn("statusNotifier.Drain gave up waiting for notifications", zap.Error(ctx.Err()))
	}
}
