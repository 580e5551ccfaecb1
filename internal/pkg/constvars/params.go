package constvars

const (
	URLParamAppointmentID = "appointment_id"
	URLParamUserID        = "user_id"
	URLParamDoctorID      = "doctor_id"
)

const (
	URLQueryParamStatus = "status"
	URLQueryParamDate   = "date"
)
