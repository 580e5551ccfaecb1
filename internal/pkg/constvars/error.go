package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email",
	"min":       "must be at least %s",
	"max":       "must be at most %s",
	"oneof":     "must be one of [%s]",
	"date_only": "must be a date in YYYY-MM-DD format",
	"slot_time": "must be a time in HH:MM format",
}

// Tags whose message carries the tag param
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientTooManyRequests               = "too many requests, please try again later"

	ErrClientAppointmentNotFound       = "appointment not found"
	ErrClientClinicNotFound            = "clinic not found"
	ErrClientInvalidStatus             = "invalid appointment status"
	ErrClientIllegalTransition         = "appointment cannot move to the requested status"
	ErrClientSlotConflict              = "the selected time slot is no longer available"
	ErrClientNotReschedulable          = "only pending or confirmed appointments can be rescheduled"
	ErrClientNotCompleted              = "this action is only allowed for completed appointments"
	ErrClientInvalidRating             = "rating must be between 1 and 5"
	ErrClientMissingFields             = "condition and treatment method are required"
	ErrClientConcurrentModification    = "the appointment was changed by someone else, please reload and try again"
	ErrClientSlotInPast                = "the selected time slot has already passed"
	ErrClientNotAppointmentParticipant = "you are not a participant of this appointment"
	ErrClientDoctorNotAssignedToReport = "only the assigned doctor can submit the medical report"
	ErrClientUserMismatch              = "you can only access your own appointments"
)

// Error messages for developers
const (
	ErrDevInvalidInput          = "invalid input"
	ErrDevCannotParseJSON       = "cannot parse JSON"
	ErrDevCannotMarshalJSON     = "cannot marshal JSON"
	ErrDevValidationFailed      = "validation failed"
	ErrDevInvalidRequestPayload = "invalid request payload"
	ErrDevInvalidFormat         = "invalid format on %s"
	ErrDevURLParamIDValidation  = "url param '%s' is not a valid id"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "token invalid or expired"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthTokenClaimsMissing    = "token claims missing subject or role"
	ErrDevAuthPermissionDenied      = "permission denied for role %s"
	ErrDevAuthActorMissing          = "actor missing from request context"

	// Appointment messages
	ErrDevAppointmentNotFound       = "appointment %s not found"
	ErrDevClinicNotFound            = "clinic %s not found"
	ErrDevInvalidStatus             = "status %q is not a known appointment status"
	ErrDevIllegalTransition         = "transition %s -> %s is not allowed"
	ErrDevSlotConflict              = "doctor %s already has an active appointment at %s %s"
	ErrDevSlotLocked                = "slot %s is locked by another request"
	ErrDevNotReschedulable          = "appointment in status %s cannot be rescheduled"
	ErrDevNotCompleted              = "appointment in status %s is not completed"
	ErrDevInvalidRating             = "rating %d out of range 1..5"
	ErrDevMissingFields             = "missing required fields: %s"
	ErrDevConcurrentModification    = "appointment %s was modified concurrently"
	ErrDevSlotInPast                = "slot %s %s is in the past"
	ErrDevNotAppointmentParticipant = "actor %s is not a participant of appointment %s"
	ErrDevDoctorNotAssignedToReport = "doctor %s is not assigned to appointment %s"
	ErrDevUserMismatch              = "actor %s requested appointments of user %s"

	// Database messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument = "failed to update document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"
	ErrDevDBFailedToDecodeDocument = "failed to decode document from database"
	ErrDevDBFailedToAggregate      = "failed to run aggregation on database"
	ErrDevDBFailedToCreateIndex    = "failed to create index on database"
	ErrDevDBStringNotObjectID      = "given ID is not valid object ID"

	// Redis messages
	ErrDevRedisSet          = "failed to set data into redis"
	ErrDevRedisGet          = "failed to get data from redis with key %s"
	ErrDevRedisDelete       = "failed to delete data from redis"
	ErrDevRedisExpire       = "failed to extend TTL of redis key"
	ErrDevRedisLockNotOwned = "lock not owned by this client"

	// Messaging and storage messages
	ErrDevMailerPublish      = "failed to publish email message to queue %s"
	ErrDevMailerCircuitOpen  = "mailer circuit breaker is open"
	ErrDevMinioCreateObject  = "failed to create object on bucket %s"
	ErrDevMinioBucketMissing = "bucket %s does not exist"

	// Server messages
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerPanicRecovered   = "panic recovered while serving request"
)
