package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	CreateAppointmentSuccessMessage       = "appointment created successfully"
	GetAppointmentSuccessMessage          = "get appointment successfully"
	GetAppointmentsSuccessMessage         = "get appointments successfully"
	UpdateAppointmentStatusSuccessMessage = "appointment status updated successfully"
	RescheduleAppointmentSuccessMessage   = "appointment rescheduled successfully"
	RateAppointmentSuccessMessage         = "appointment rated successfully"
	SubmitMedicalReportSuccessMessage     = "medical report submitted successfully"
	GetAppointmentStatsSuccessMessage     = "get appointment stats successfully"
	GetMedicalReportsSuccessMessage       = "get medical reports successfully"
	HealthCheckSuccessMessage             = "service is healthy"
)
