package models

import "strings"

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// AllAppointmentStatuses lists every status in lifecycle order.
var AllAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusRescheduled,
}

// appointmentTransitions is the only place the lifecycle is defined.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:     {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:   {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusRescheduled},
	AppointmentStatusRescheduled: {AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusCompleted:   {},
	AppointmentStatusCancelled:   {AppointmentStatusPending},
}

// ActiveAppointmentStatuses are the statuses still expected to take place.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
}

// SlotHoldingAppointmentStatuses occupy their doctor's slot. A rescheduled
// appointment holds the slot it was moved to until it is confirmed or cancelled.
var SlotHoldingAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusRescheduled,
}

// ReschedulableAppointmentStatuses may be moved to another slot.
var ReschedulableAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
}

func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	status := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.IsValid()
}

func (s AppointmentStatus) String() string {
	return string(s)
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

func (s AppointmentStatus) IsActive() bool {
	return containsStatus(ActiveAppointmentStatuses, s)
}

func (s AppointmentStatus) HoldsSlot() bool {
	return containsStatus(SlotHoldingAppointmentStatuses, s)
}

func (s AppointmentStatus) IsReschedulable() bool {
	return containsStatus(ReschedulableAppointmentStatuses, s)
}

func (s AppointmentStatus) IsTerminal() bool {
	return s.IsValid() && len(appointmentTransitions[s]) == 0
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	return containsStatus(appointmentTransitions[s], target)
}

func (s AppointmentStatus) AllowedTransitions() []AppointmentStatus {
	allowed := appointmentTransitions[s]
	out := make([]AppointmentStatus, len(allowed))
	copy(out, allowed)
	return out
}

// ReoccupiesSlot reports whether moving from s to target puts the appointment
// back onto its slot.
func (s AppointmentStatus) ReoccupiesSlot(target AppointmentStatus) bool {
	return !s.HoldsSlot() && target.HoldsSlot()
}

func containsStatus(statuses []AppointmentStatus, target AppointmentStatus) bool {
	for _, status := range statuses {
		if status == target {
			return true
		}
	}
	return false
}

func StatusesToStrings(statuses []AppointmentStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, string(status))
	}
	return out
}
