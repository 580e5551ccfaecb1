package appointments

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/dto/responses"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "clinic-appointment-service/appointments"

const bookingHistoryReason = "Appointment booked"

type appointmentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	UserRepository        contracts.UserRepository
	ClinicRepository      contracts.ClinicRepository
	LockService           contracts.LockerService
	RedisRepository       contracts.RedisRepository
	Storage               contracts.Storage
	Notifier              contracts.AppointmentNotifier
	Metrics               contracts.AppointmentMetrics
	InternalConfig        *config.InternalConfig
	Location              *time.Location
	Log                   *zap.Logger
	tracer                trace.Tracer
	now                   func() time.Time
}

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	userRepository contracts.UserRepository,
	clinicRepository contracts.ClinicRepository,
	lockService contracts.LockerService,
	redisRepository contracts.RedisRepository,
	storage contracts.Storage,
	notifier contracts.AppointmentNotifier,
	metrics contracts.AppointmentMetrics,
	internalConfig *config.InternalConfig,
	location *time.Location,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	if location == nil {
		location = time.Local
	}
	return &appointmentUsecase{
		AppointmentRepository: appointmentRepository,
		UserRepository:        userRepository,
		ClinicRepository:      clinicRepository,
		LockService:           lockService,
		RedisRepository:       redisRepository,
		Storage:               storage,
		Notifier:              notifier,
		Metrics:               metrics,
		InternalConfig:        internalConfig,
		Location:              location,
		Log:                   logger,
		tracer:                otel.Tracer(tracerName),
		now:                   time.Now,
	}
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, actor models.Actor, request *requests.CreateAppointment) (result *models.Appointment, err error) {
	ctx, span := uc.startSpan(ctx, "appointmentUsecase.CreateAppointment",
		attribute.String("doctor.id", request.DoctorID),
		attribute.String("actor.id", actor.UserID),
	)
	defer func() { endSpan(span, err) }()

	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActorIDKey, actor.UserID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error validating request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	day, scheduledAt, err := uc.parseFutureSlot(request.AppointmentDate, request.AppointmentTime)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error parsing slot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotDateKey, request.AppointmentDate),
			zap.String(constvars.LoggingSlotTimeKey, request.AppointmentTime),
			zap.Error(err),
		)
		return nil, err
	}

	clinic, err := uc.ClinicRepository.FindByID(ctx, request.ClinicID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error calling ClinicRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicIDKey, request.ClinicID),
			zap.Error(err),
		)
		return nil, err
	}
	if clinic == nil {
		return nil, exceptions.ErrClinicNotFound(nil, request.ClinicID)
	}

	now := uc.now()
	appointment := &models.Appointment{
		PatientID:       actor.UserID,
		DoctorID:        request.DoctorID,
		ClinicID:        request.ClinicID,
		ClinicName:      clinic.Name,
		Location:        clinic.Address,
		AppointmentDate: day,
		AppointmentTime: request.AppointmentTime,
		ScheduledAt:     scheduledAt,
		Reason:          request.Reason,
		Notes:           request.Notes,
		Status:          models.AppointmentStatusPending,
		StatusHistory: []models.StatusHistoryEntry{
			models.NewStatusHistoryEntry(models.AppointmentStatusPending, bookingHistoryReason, actor, now),
		},
		Price:         request.Price,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	appointment.SyncSlotKey()
	appointment.SetCreatedAtUpdatedAt(now)

	err = uc.withSlotLock(ctx, request.DoctorID, day, request.AppointmentTime, constvars.OperationCreate, func(ctx context.Context) error {
		if err := uc.ensureSlotFree(ctx, request.DoctorID, day, request.AppointmentTime, ""); err != nil {
			return err
		}
		return uc.AppointmentRepository.Create(ctx, appointment)
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error booking slot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
			zap.String(constvars.LoggingSlotDateKey, request.AppointmentDate),
			zap.String(constvars.LoggingSlotTimeKey, request.AppointmentTime),
			zap.Error(err),
		)
		return nil, uc.observeConflict(err, constvars.OperationCreate)
	}

	uc.Metrics.ObserveCreated()
	uc.invalidatePatientStats(ctx, appointment.PatientID)

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
	)
	return appointment, nil
}

func (uc *appointmentUsecase) HasConflict(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return uc.AppointmentRepository.HasActiveInSlot(ctx, doctorID, day, slotTime, excludeID)
}

func (uc *appointmentUsecase) FindByID(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParticipant(actor, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (uc *appointmentUsecase) FindByPatient(ctx context.Context, actor models.Actor, request *requests.FindPatientAppointments) ([]models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.FindByPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	if err := authorizePatientScope(actor, request.PatientID); err != nil {
		return nil, err
	}

	filter := models.AppointmentFilter{PatientID: request.PatientID}
	if request.Status != "" {
		status, ok := models.ParseAppointmentStatus(request.Status)
		if !ok {
			return nil, exceptions.ErrInvalidStatus(nil, request.Status)
		}
		filter.Status = status
	}

	appointments, err := uc.AppointmentRepository.FindAll(ctx, filter)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindByPatient error calling AppointmentRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.FindByPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingAppointmentCountKey, len(appointments)),
	)
	return appointments, nil
}

func (uc *appointmentUsecase) FindByDoctor(ctx context.Context, actor models.Actor, request *requests.FindDoctorAppointments) ([]models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.FindByDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	if err := authorizeDoctorScope(actor, request.DoctorID); err != nil {
		return nil, err
	}

	filter := models.AppointmentFilter{DoctorID: request.DoctorID}
	if request.Date != "" {
		day, err := utils.ParseDate(request.Date)
		if err != nil {
			return nil, exceptions.ErrInvalidFormat(err, constvars.URLQueryParamDate)
		}
		filter.Date = &day
	}
	if request.Status != "" {
		status, ok := models.ParseAppointmentStatus(request.Status)
		if !ok {
			return nil, exceptions.ErrInvalidStatus(nil, request.Status)
		}
		filter.Status = status
	}

	appointments, err := uc.AppointmentRepository.FindAll(ctx, filter)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindByDoctor error calling AppointmentRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return appointments, nil
}

func (uc *appointmentUsecase) FindTodayByDoctor(ctx context.Context, actor models.Actor, doctorID string) ([]models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	if err := authorizeDoctorScope(actor, doctorID); err != nil {
		return nil, err
	}

	start, end := utils.DayBounds(uc.now(), uc.Location)
	appointments, err := uc.AppointmentRepository.FindAll(ctx, models.AppointmentFilter{
		DoctorID:      doctorID,
		ScheduledFrom: &start,
		ScheduledTo:   &end,
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindTodayByDoctor error calling AppointmentRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}
	return appointments, nil
}

func (uc *appointmentUsecase) GetPatientStats(ctx context.Context, actor models.Actor, patientID string) (*models.AppointmentStats, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.GetPatientStats called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	if err := authorizePatientScope(actor, patientID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(constvars.UserStatsCacheKeyFormat, patientID)
	cached, err := uc.RedisRepository.Get(ctx, cacheKey)
	if err != nil {
		uc.Log.Warn("appointmentUsecase.GetPatientStats error reading cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, cacheKey),
			zap.Error(err),
		)
	}
	if cached != "" {
		var stats models.AppointmentStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := uc.AppointmentRepository.AggregatePatientStats(ctx, patientID, uc.now())
	if err != nil {
		uc.Log.Error("appointmentUsecase.GetPatientStats error calling AppointmentRepository.AggregatePatientStats",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	ttl := uc.InternalConfig.Appointment.StatsCacheTTL
	if ttl <= 0 {
		ttl = constvars.DefaultUserStatsCacheTTL
	}
	if err := uc.RedisRepository.Set(ctx, cacheKey, stats, ttl); err != nil {
		uc.Log.Warn("appointmentUsecase.GetPatientStats error writing cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, cacheKey),
			zap.Error(err),
		)
	}
	return stats, nil
}

func (uc *appointmentUsecase) FindMedicalReportsByPatient(ctx context.Context, actor models.Actor, patientID string) ([]responses.MedicalReport, error) {
	requestID := utils.GetRequestID(ctx)
	if err := authorizePatientScope(actor, patientID); err != nil {
		return nil, err
	}

	appointments, err := uc.AppointmentRepository.FindAll(ctx, models.AppointmentFilter{
		PatientID:  patientID,
		Status:     models.AppointmentStatusCompleted,
		WithReport: true,
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindMedicalReportsByPatient error calling AppointmentRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	reports := make([]responses.MedicalReport, 0, len(appointments))
	for i := range appointments {
		if appointments[i].MedicalReport == nil {
			continue
		}
		reports = append(reports, toMedicalReportResponse(&appointments[i]))
	}
	return reports, nil
}

func toMedicalReportResponse(appointment *models.Appointment) responses.MedicalReport {
	return responses.MedicalReport{
		AppointmentID:   appointment.ID.Hex(),
		DoctorID:        appointment.DoctorID,
		ClinicName:      appointment.ClinicName,
		AppointmentDate: appointment.DateLabel(),
		AppointmentTime: appointment.AppointmentTime,
		Report:          appointment.MedicalReport,
	}
}

func (uc *appointmentUsecase) findAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	// no stored appointment can carry an id that is not an ObjectID
	if !primitive.IsValidObjectID(appointmentID) {
		return nil, exceptions.ErrAppointmentNotFound(nil, appointmentID)
	}

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.findAppointment error calling AppointmentRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil, appointmentID)
	}
	return appointment, nil
}

// parseFutureSlot rejects malformed labels and, unless configured otherwise,
// slots that already started.
func (uc *appointmentUsecase) parseFutureSlot(date, slotTime string) (time.Time, time.Time, error) {
	day, scheduledAt, err := utils.ParseSlot(date, slotTime, uc.Location)
	if err != nil {
		return time.Time{}, time.Time{}, exceptions.ErrInvalidFormat(err, "appointment slot")
	}
	if !uc.InternalConfig.Appointment.AllowPastSlot && scheduledAt.Before(uc.now()) {
		return time.Time{}, time.Time{}, exceptions.ErrSlotInPast(nil, date, slotTime)
	}
	return day, scheduledAt, nil
}

// withSlotLock serializes check-and-write for one (doctor, date, time) key.
func (uc *appointmentUsecase) withSlotLock(ctx context.Context, doctorID string, day time.Time, slotTime, operation string, fn func(ctx context.Context) error) error {
	lockKey := fmt.Sprintf(constvars.SlotLockKeyFormat, doctorID, day.Format(constvars.DateLayout), slotTime)
	ttl := uc.InternalConfig.Appointment.SlotLockTTL
	if ttl <= 0 {
		ttl = constvars.DefaultSlotLockTTL
	}

	acquired, token, err := uc.LockService.TryLock(ctx, lockKey, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return exceptions.ErrSlotLocked(nil, lockKey)
	}
	defer func() {
		if err := uc.LockService.Unlock(ctx, lockKey, token); err != nil {
			uc.Log.Warn("appointmentUsecase.withSlotLock error releasing slot lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.String(constvars.LoggingOperationKey, operation),
				zap.Error(err),
			)
		}
	}()

	return fn(ctx)
}

func (uc *appointmentUsecase) ensureSlotFree(ctx context.Context, doctorID string, day time.Time, slotTime, excludeID string) error {
	taken, err := uc.HasConflict(ctx, doctorID, day, slotTime, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return exceptions.ErrSlotConflict(nil, doctorID, day.Format(constvars.DateLayout), slotTime)
	}
	return nil
}

func (uc *appointmentUsecase) observeConflict(err error, operation string) error {
	if exceptions.KindOf(err) == exceptions.KindSlotConflict {
		uc.Metrics.ObserveSlotConflict(operation)
	}
	return err
}

func (uc *appointmentUsecase) invalidatePatientStats(ctx context.Context, patientID string) {
	cacheKey := fmt.Sprintf(constvars.UserStatsCacheKeyFormat, patientID)
	if err := uc.RedisRepository.Delete(ctx, cacheKey); err != nil {
		uc.Log.Warn("appointmentUsecase.invalidatePatientStats error deleting cache",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingRedisKey, cacheKey),
			zap.Error(err),
		)
	}
}

func (uc *appointmentUsecase) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return uc.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func authorizeParticipant(actor models.Actor, appointment *models.Appointment) error {
	if actor.Role == constvars.RoleAdmin || actor.Role == constvars.RoleSystem {
		return nil
	}
	if appointment.IsParticipant(actor) {
		return nil
	}
	return exceptions.ErrNotAppointmentParticipant(nil, actor.UserID, appointment.ID.Hex())
}

func authorizePatientScope(actor models.Actor, patientID string) error {
	switch actor.Role {
	case constvars.RoleAdmin, constvars.RoleDoctor:
		return nil
	}
	if actor.UserID == patientID {
		return nil
	}
	return exceptions.ErrUserMismatch(nil, actor.UserID, patientID)
}

func authorizeDoctorScope(actor models.Actor, doctorID string) error {
	if actor.Role == constvars.RoleAdmin {
		return nil
	}
	if actor.Role == constvars.RoleDoctor && actor.UserID == doctorID {
		return nil
	}
	return exceptions.ErrUserMismatch(nil, actor.UserID, doctorID)
}
