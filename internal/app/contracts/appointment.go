package contracts

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/dto/responses"
	"context"
	"time"
)

type AppointmentRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, appointment *models.Appointment) error
	// FindByID returns nil without error when no appointment matches.
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	HasActiveInSlot(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error)
	// ReplaceIfVersion stores appointment only when the stored version still equals expectedVersion.
	ReplaceIfVersion(ctx context.Context, appointment *models.Appointment, expectedVersion int64) (bool, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Appointment, error)
	// CancelIfPending cancels the appointment only while it is still pending.
	CancelIfPending(ctx context.Context, appointmentID, reason string, entry models.StatusHistoryEntry) (bool, error)
	AggregatePatientStats(ctx context.Context, patientID string, now time.Time) (*models.AppointmentStats, error)
}

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor models.Actor, request *requests.CreateAppointment) (*models.Appointment, error)
	ChangeStatus(ctx context.Context, actor models.Actor, request *requests.UpdateAppointmentStatus) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor models.Actor, request *requests.RescheduleAppointment) (*models.Appointment, error)
	Rate(ctx context.Context, actor models.Actor, request *requests.RateAppointment) (*models.Appointment, error)
	SubmitMedicalReport(ctx context.Context, actor models.Actor, request *requests.SubmitMedicalReport) (*models.Appointment, error)
	HasConflict(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error)
	FindByID(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error)
	FindByPatient(ctx context.Context, actor models.Actor, request *requests.FindPatientAppointments) ([]models.Appointment, error)
	FindByDoctor(ctx context.Context, actor models.Actor, request *requests.FindDoctorAppointments) ([]models.Appointment, error)
	FindTodayByDoctor(ctx context.Context, actor models.Actor, doctorID string) ([]models.Appointment, error)
	GetPatientStats(ctx context.Context, actor models.Actor, patientID string) (*models.AppointmentStats, error)
	FindMedicalReportsByPatient(ctx context.Context, actor models.Actor, patientID string) ([]responses.MedicalReport, error)
	AutoCancelExpired(ctx context.Context, now time.Time) (int, error)
}

type AppointmentMetrics interface {
	ObserveCreated()
	ObserveTransition(from, to models.AppointmentStatus)
	ObserveSlotConflict(operation string)
	ObserveAutoCancelled(count int)
	ObserveNotification(result string)
}

// AppointmentNotifier delivers status-change notices without blocking the caller.
type AppointmentNotifier interface {
	Notify(ctx context.Context, appointment models.Appointment, reason string)
}
