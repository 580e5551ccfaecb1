package requests

type CreateAppointment struct {
	DoctorID        string  `json:"doctorId" validate:"required"`
	ClinicID        string  `json:"clinicId" validate:"required"`
	AppointmentDate string  `json:"appointmentDate" validate:"required,date_only"`
	AppointmentTime string  `json:"appointmentTime" validate:"required,slot_time"`
	Reason          string  `json:"reason" validate:"required,max=500"`
	Notes           string  `json:"notes" validate:"max=1000"`
	Price           float64 `json:"price" validate:"min=0"`
}

type UpdateAppointmentStatus struct {
	AppointmentID string `json:"-"`
	Status        string `json:"status" validate:"required"`
	Reason        string `json:"reason" validate:"max=500"`
}

type RescheduleAppointment struct {
	AppointmentID string `json:"-"`
	NewDate       string `json:"newDate" validate:"required,date_only"`
	NewTime       string `json:"newTime" validate:"required,slot_time"`
	Reason        string `json:"reason" validate:"max=500"`
}

// Rating range is enforced by the usecase so that it reports InvalidRating.
type RateAppointment struct {
	AppointmentID string `json:"-"`
	Rating        int    `json:"rating"`
	Review        string `json:"review" validate:"max=1000"`
}

type PrescriptionItem struct {
	Medicine string `json:"medicine" validate:"required"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

// Condition and TreatmentMethod are checked by the usecase so that it reports MissingFields.
type SubmitMedicalReport struct {
	AppointmentID   string             `json:"-"`
	Condition       string             `json:"condition"`
	TreatmentMethod string             `json:"treatmentMethod"`
	Prescription    []PrescriptionItem `json:"prescription" validate:"dive"`
	Notes           string             `json:"notes" validate:"max=2000"`
}

type FindDoctorAppointments struct {
	DoctorID string
	Date     string `validate:"omitempty,date_only"`
	Status   string
}

type FindPatientAppointments struct {
	PatientID string
	Status    string
}
