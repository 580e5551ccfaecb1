package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Appointment struct {
	ID                 primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	PatientID          string               `json:"userId" bson:"userId"`
	DoctorID           string               `json:"doctorId" bson:"doctorId"`
	ClinicID           string               `json:"clinicId" bson:"clinicId"`
	ClinicName         string               `json:"clinicName" bson:"clinicName"`
	Location           string               `json:"location" bson:"location"`
	AppointmentDate    time.Time            `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime    string               `json:"appointmentTime" bson:"appointmentTime"`
	ScheduledAt        time.Time            `json:"scheduledAt" bson:"scheduledAt"`
	OriginalDate       *time.Time           `json:"originalDate,omitempty" bson:"originalDate,omitempty"`
	OriginalTime       string               `json:"originalTime,omitempty" bson:"originalTime,omitempty"`
	Reason             string               `json:"reason" bson:"reason"`
	Notes              string               `json:"notes,omitempty" bson:"notes,omitempty"`
	Status             AppointmentStatus    `json:"status" bson:"status"`
	StatusHistory      []StatusHistoryEntry `json:"statusHistory" bson:"statusHistory"`
	CancellationReason string               `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	RescheduleReason   string               `json:"rescheduleReason,omitempty" bson:"rescheduleReason,omitempty"`
	Price              float64              `json:"price" bson:"price"`
	PaymentStatus      PaymentStatus        `json:"paymentStatus" bson:"paymentStatus"`
	MedicalReport      *MedicalReport       `json:"medicalReport,omitempty" bson:"medicalReport,omitempty"`
	Rating             *int                 `json:"rating,omitempty" bson:"rating,omitempty"`
	Review             string               `json:"review,omitempty" bson:"review,omitempty"`
	SlotKey            string               `json:"-" bson:"slotKey,omitempty"`
	Version            int64                `json:"version" bson:"version"`
	TimeModel          `bson:",inline"`
}

type StatusHistoryEntry struct {
	Status    AppointmentStatus `json:"status" bson:"status"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
	Reason    string            `json:"reason,omitempty" bson:"reason,omitempty"`
	UpdatedBy string            `json:"updatedBy" bson:"updatedBy"`
	Role      string            `json:"role,omitempty" bson:"role,omitempty"`
}

type MedicalReport struct {
	Condition       string             `json:"condition" bson:"condition"`
	TreatmentMethod string             `json:"treatmentMethod" bson:"treatmentMethod"`
	Prescription    []PrescriptionItem `json:"prescription,omitempty" bson:"prescription,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	SubmittedBy     string             `json:"submittedBy" bson:"submittedBy"`
	SubmittedAt     time.Time          `json:"submittedAt" bson:"submittedAt"`
}

type PrescriptionItem struct {
	Medicine string `json:"medicine" bson:"medicine"`
	Dosage   string `json:"dosage" bson:"dosage"`
	Duration string `json:"duration" bson:"duration"`
}

// AppointmentStats summarises one patient's appointments.
type AppointmentStats struct {
	Total         int64            `json:"total"`
	StatusCounts  map[string]int64 `json:"statusCounts"`
	UpcomingCount int64            `json:"upcomingCount"`
	TotalSpent    float64          `json:"totalSpent"`
}

// AppointmentFilter narrows listing queries. Zero values are ignored.
type AppointmentFilter struct {
	PatientID     string
	DoctorID      string
	Status        AppointmentStatus
	Date          *time.Time
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	WithReport    bool
}

// SlotKey identifies a doctor's point slot on a calendar day.
func SlotKey(doctorID string, date time.Time, slotTime string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date.UTC().Format("2006-01-02"), slotTime)
}

func (a *Appointment) DateLabel() string {
	return a.AppointmentDate.UTC().Format("2006-01-02")
}

func (a *Appointment) LatestHistory() (StatusHistoryEntry, bool) {
	if len(a.StatusHistory) == 0 {
		return StatusHistoryEntry{}, false
	}
	return a.StatusHistory[len(a.StatusHistory)-1], true
}

// SyncSlotKey keeps SlotKey populated only while the status holds the slot.
func (a *Appointment) SyncSlotKey() {
	if a.Status.HoldsSlot() {
		a.SlotKey = SlotKey(a.DoctorID, a.AppointmentDate, a.AppointmentTime)
		return
	}
	a.SlotKey = ""
}

func (a *Appointment) IsParticipant(actor Actor) bool {
	return actor.UserID == a.PatientID || actor.UserID == a.DoctorID
}

func NewStatusHistoryEntry(status AppointmentStatus, reason string, actor Actor, at time.Time) StatusHistoryEntry {
	return StatusHistoryEntry{
		Status:    status,
		Timestamp: at,
		Reason:    reason,
		UpdatedBy: actor.UserID,
		Role:      actor.Role,
	}
}
