package constvars

import "time"

const (
	AutoCancelReason        = "Appointment time has passed without confirmation."
	AutoCancelHistoryReason = "Automatically cancelled because the appointment time has passed."
	AutoCancelLeaderLockKey = "appointment:autocancel:leader"
	SlotLockKeyFormat       = "appointment:slot:%s:%s:%s"
	UserStatsCacheKeyFormat = "appointment:stats:%s"
	MedicalReportObjectName = "medical-reports/%s/%s.json"
)

const (
	DefaultSlotLockTTL        = 10 * time.Second
	DefaultUserStatsCacheTTL  = 5 * time.Minute
	DefaultAutoCancelCronSpec = "@every 1m"
)

const (
	NotificationResultSent    = "sent"
	NotificationResultFailed  = "failed"
	NotificationResultSkipped = "skipped"
)

const (
	OperationCreate     = "create"
	OperationReschedule = "reschedule"
	OperationTransition = "transition"
)
