package appointments

import (
	"clinic-appointment-service/internal/app/config"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/app/services/shared/locker"
	"clinic-appointment-service/internal/app/services/shared/metrics"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/exceptions"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	testDoctorID      = "doctor-1"
	testOtherDoctorID = "doctor-2"
	testPatientID     = "patient-1"
	testOtherPatient  = "patient-2"
	testAdminID       = "admin-1"
)

var (
	testClinicID = primitive.NewObjectID().Hex()
	testNow      = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

	patientActor = models.Actor{UserID: testPatientID, Role: "user"}
	otherPatient = models.Actor{UserID: testOtherPatient, Role: "user"}
	doctorActor  = models.Actor{UserID: testDoctorID, Role: "doctor"}
	otherDoctor  = models.Actor{UserID: testOtherDoctorID, Role: "doctor"}
	adminActor   = models.Actor{UserID: testAdminID, Role: "admin"}
)

// memoryAppointmentRepository mimics the Mongo repository, including the
// unique partial index on slotKey.
type memoryAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment

	beforeReplace func(id string)
	beforeCancel  func(id string)
	cancelErrors  map[string]error
}

func newMemoryAppointmentRepository() *memoryAppointmentRepository {
	return &memoryAppointmentRepository{
		appointments: map[string]*models.Appointment{},
		cancelErrors: map[string]error{},
	}
}

func (r *memoryAppointmentRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *memoryAppointmentRepository) slotTakenLocked(slotKey string, excludeID primitive.ObjectID) bool {
	if slotKey == "" {
		return false
	}
	for _, stored := range r.appointments {
		if stored.ID != excludeID && stored.SlotKey == slotKey {
			return true
		}
	}
	return false
}

func (r *memoryAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	if r.slotTakenLocked(appointment.SlotKey, appointment.ID) {
		return exceptions.ErrSlotConflict(errors.New("E11000 duplicate key"), appointment.DoctorID, appointment.DateLabel(), appointment.AppointmentTime)
	}
	r.appointments[appointment.ID.Hex()] = cloneAppointment(appointment)
	return nil
}

func (r *memoryAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if _, err := primitive.ObjectIDFromHex(appointmentID); err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	return cloneAppointment(stored), nil
}

func (r *memoryAppointmentRepository) FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Appointment, 0)
	for _, stored := range r.appointments {
		if filter.PatientID != "" && stored.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && stored.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !stored.AppointmentDate.Equal(*filter.Date) {
			continue
		}
		if filter.ScheduledFrom != nil && stored.ScheduledAt.Before(*filter.ScheduledFrom) {
			continue
		}
		if filter.ScheduledTo != nil && !stored.ScheduledAt.Before(*filter.ScheduledTo) {
			continue
		}
		if filter.WithReport && stored.MedicalReport == nil {
			continue
		}
		out = append(out, *cloneAppointment(stored))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *memoryAppointmentRepository) HasActiveInSlot(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stored := range r.appointments {
		if id == excludeID {
			continue
		}
		if stored.DoctorID == doctorID && stored.AppointmentDate.Equal(date) && stored.AppointmentTime == slotTime && stored.Status.HoldsSlot() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAppointmentRepository) ReplaceIfVersion(ctx context.Context, appointment *models.Appointment, expectedVersion int64) (bool, error) {
	if r.beforeReplace != nil {
		r.beforeReplace(appointment.ID.Hex())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appointments[appointment.ID.Hex()]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	if r.slotTakenLocked(appointment.SlotKey, appointment.ID) {
		return false, exceptions.ErrSlotConflict(errors.New("E11000 duplicate key"), appointment.DoctorID, appointment.DateLabel(), appointment.AppointmentTime)
	}
	appointment.Version = expectedVersion + 1
	r.appointments[appointment.ID.Hex()] = cloneAppointment(appointment)
	return true, nil
}

func (r *memoryAppointmentRepository) FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Appointment, error) {
	all, _ := r.FindAll(ctx, models.AppointmentFilter{Status: models.AppointmentStatusPending, ScheduledTo: &cutoff})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryAppointmentRepository) CancelIfPending(ctx context.Context, appointmentID, reason string, entry models.StatusHistoryEntry) (bool, error) {
	if r.beforeCancel != nil {
		r.beforeCancel(appointmentID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.cancelErrors[appointmentID]; err != nil {
		return false, err
	}
	stored, ok := r.appointments[appointmentID]
	if !ok || stored.Status != models.AppointmentStatusPending {
		return false, nil
	}
	stored.Status = models.AppointmentStatusCancelled
	stored.CancellationReason = reason
	stored.StatusHistory = append(stored.StatusHistory, entry)
	stored.SlotKey = ""
	stored.UpdatedAt = entry.Timestamp
	stored.Version++
	return true, nil
}

func (r *memoryAppointmentRepository) AggregatePatientStats(ctx context.Context, patientID string, now time.Time) (*models.AppointmentStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.AppointmentStats{StatusCounts: map[string]int64{}}
	for _, status := range models.AllAppointmentStatuses {
		stats.StatusCounts[string(status)] = 0
	}
	for _, stored := range r.appointments {
		if stored.PatientID != patientID {
			continue
		}
		stats.Total++
		stats.StatusCounts[string(stored.Status)]++
		if stored.Status.IsActive() && !stored.ScheduledAt.Before(now) {
			stats.UpcomingCount++
		}
		if stored.Status == models.AppointmentStatusCompleted && stored.PaymentStatus == models.PaymentStatusPaid {
			stats.TotalSpent += stored.Price
		}
	}
	return stats, nil
}

// seed stores appointment as-is, with a history ending in its status.
func (r *memoryAppointmentRepository) seed(appointment models.Appointment) *models.Appointment {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	if len(appointment.StatusHistory) == 0 {
		appointment.StatusHistory = []models.StatusHistoryEntry{
			models.NewStatusHistoryEntry(appointment.Status, "seeded", adminActor, testNow.Add(-48*time.Hour)),
		}
	}
	appointment.SyncSlotKey()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[appointment.ID.Hex()] = cloneAppointment(&appointment)
	return cloneAppointment(&appointment)
}

func (r *memoryAppointmentRepository) get(id string) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAppointment(r.appointments[id])
}

func (r *memoryAppointmentRepository) mutate(id string, fn func(a *models.Appointment)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.appointments[id])
}

func (r *memoryAppointmentRepository) all() []models.Appointment {
	appointments, _ := r.FindAll(context.Background(), models.AppointmentFilter{})
	return appointments
}

type memoryRedis struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}}
}

func encodeValue(value interface{}) string {
	raw, _ := json.Marshal(value)
	return string(raw)
}

func (m *memoryRedis) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = encodeValue(value)
	return nil
}

func (m *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = encodeValue(value)
	return true, nil
}

func (m *memoryRedis) CompareAndDelete(ctx context.Context, key string, expected interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[key] != encodeValue(expected) {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func (m *memoryRedis) CompareAndExpire(ctx context.Context, key string, expected interface{}, exp time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key] == encodeValue(expected), nil
}

type fakeUserRepository struct {
	users map[string]*models.User
}

func (f *fakeUserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return f.users[userID], nil
}

type fakeClinicRepository struct {
	clinics map[string]*models.Clinic
}

func (f *fakeClinicRepository) FindByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	return f.clinics[clinicID], nil
}

type notification struct {
	AppointmentID string
	Status        models.AppointmentStatus
	Reason        string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(ctx context.Context, appointment models.Appointment, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{AppointmentID: appointment.ID.Hex(), Status: appointment.Status, Reason: reason})
}

func (n *recordingNotifier) notifications() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.sent))
	copy(out, n.sent)
	return out
}

type fakeStorage struct {
	mu      sync.Mutex
	err     error
	objects map[string]interface{}
}

func (f *fakeStorage) UploadJSON(ctx context.Context, bucketName, objectName string, payload interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.objects == nil {
		f.objects = map[string]interface{}{}
	}
	f.objects[bucketName+"/"+objectName] = payload
	return objectName, nil
}

type fakeMailer struct {
	mu       sync.Mutex
	err      error
	payloads []*requests.EmailPayload
}

func (f *fakeMailer) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, request)
	return f.err
}

type testDeps struct {
	repo      *memoryAppointmentRepository
	redis     *memoryRedis
	notifier  *recordingNotifier
	storage   *fakeStorage
	collector *metrics.Collector
	config    *config.InternalConfig
}

func newTestUsecase(t *testing.T) (*appointmentUsecase, *testDeps) {
	t.Helper()

	deps := &testDeps{
		repo:      newMemoryAppointmentRepository(),
		redis:     newMemoryRedis(),
		notifier:  &recordingNotifier{},
		storage:   &fakeStorage{},
		collector: metrics.NewCollector(prometheus.NewRegistry(), "clinic_test"),
		config: &config.InternalConfig{
			Appointment: config.Appointment{SlotLockTTL: time.Second, StatsCacheTTL: time.Minute},
			Storage:     config.Storage{MedicalReportBucket: "reports", ArchiveEnabled: true},
		},
	}
	users := &fakeUserRepository{users: map[string]*models.User{
		testPatientID: {FullName: "Jane Patient", Email: "jane@clinic.test", Role: "user"},
	}}
	clinics := &fakeClinicRepository{clinics: map[string]*models.Clinic{
		testClinicID: {Name: "Sunrise Clinic", Address: "1 Main St"},
	}}

	logger := zap.NewNop()
	usecase := NewAppointmentUsecase(
		deps.repo,
		users,
		clinics,
		locker.NewLockService(deps.redis, logger),
		deps.redis,
		deps.storage,
		deps.notifier,
		deps.collector,
		deps.config,
		time.UTC,
		logger,
	).(*appointmentUsecase)
	usecase.now = func() time.Time { return testNow }
	return usecase, deps
}

func bookRequest(date, slotTime string) *requests.CreateAppointment {
	return &requests.CreateAppointment{
		DoctorID:        testDoctorID,
		ClinicID:        testClinicID,
		AppointmentDate: date,
		AppointmentTime: slotTime,
		Reason:          "Check-up",
		Price:           150,
	}
}

func seededAppointment(status models.AppointmentStatus, date time.Time, slotTime string) models.Appointment {
	parsed, _ := time.Parse("15:04", slotTime)
	return models.Appointment{
		PatientID:       testPatientID,
		DoctorID:        testDoctorID,
		ClinicID:        testClinicID,
		ClinicName:      "Sunrise Clinic",
		AppointmentDate: date,
		AppointmentTime: slotTime,
		ScheduledAt:     date.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute),
		Reason:          "Check-up",
		Status:          status,
		PaymentStatus:   models.PaymentStatusUnpaid,
	}
}

func calendarDay(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
