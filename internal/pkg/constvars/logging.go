package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingDataKey         = "data"
	LoggingQueryParamsKey  = "query_params"
	LoggingErrorCodeKey    = "error_code"
	LoggingErrorMessageKey = "error_message"
	LoggingOperationKey    = "operation"
	LoggingDurationKey     = "duration"
	LoggingSuccessKey      = "success"
	LoggingStatusCodeKey   = "status_code"
	LoggingMethodKey       = "method"
	LoggingEndpointKey     = "endpoint"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingQueryKey        = "query"
)

const (
	LoggingAppointmentIDKey     = "appointment_id"
	LoggingDoctorIDKey          = "doctor_id"
	LoggingPatientIDKey         = "patient_id"
	LoggingClinicIDKey          = "clinic_id"
	LoggingFromStatusKey        = "from_status"
	LoggingToStatusKey          = "to_status"
	LoggingSlotDateKey          = "slot_date"
	LoggingSlotTimeKey          = "slot_time"
	LoggingActorIDKey           = "actor_id"
	LoggingActorRoleKey         = "actor_role"
	LoggingAppointmentCountKey  = "appointment_count"
	LoggingCancelledCountKey    = "cancelled_count"
	LoggingRecipientKey         = "recipient"
	LoggingMailerQueueKey       = "mailer_queue"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectNameKey        = "object_name"
	LoggingRedisKey             = "redis_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingTickKey              = "tick"
)
