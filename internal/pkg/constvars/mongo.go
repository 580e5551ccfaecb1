package constvars

const (
	MongoCollectionAppointments = "appointments"
	MongoCollectionUsers        = "users"
	MongoCollectionClinics      = "clinics"
)

const (
	MongoIndexAppointmentActiveSlot   = "uniq_active_slot"
	MongoIndexAppointmentStatusSched  = "status_scheduled_at"
	MongoIndexAppointmentDoctorSched  = "doctor_scheduled_at"
	MongoIndexAppointmentPatientSched = "patient_scheduled_at"
	MongoDuplicateKeyErrorCode        = 11000
)
