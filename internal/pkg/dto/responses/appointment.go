package responses

import "clinic-appointment-service/internal/app/models"

type Appointment struct {
	*models.Appointment
	AllowedTransitions []string `json:"allowedTransitions"`
}

func NewAppointment(appointment *models.Appointment) *Appointment {
	if appointment == nil {
		return nil
	}
	return &Appointment{
		Appointment:        appointment,
		AllowedTransitions: models.StatusesToStrings(appointment.Status.AllowedTransitions()),
	}
}

func NewAppointments(appointments []models.Appointment) []*Appointment {
	out := make([]*Appointment, 0, len(appointments))
	for i := range appointments {
		out = append(out, NewAppointment(&appointments[i]))
	}
	return out
}

type MedicalReport struct {
	AppointmentID   string                `json:"appointmentId"`
	DoctorID        string                `json:"doctorId"`
	ClinicName      string                `json:"clinicName"`
	AppointmentDate string                `json:"appointmentDate"`
	AppointmentTime string                `json:"appointmentTime"`
	Report          *models.MedicalReport `json:"report"`
}

type HealthCheck struct {
	Status string `json:"status"`
}
