package routers

import (
	"clinic-appointment-service/internal/app/delivery/http/controllers"
	"clinic-appointment-service/internal/app/delivery/http/middlewares"
	"clinic-appointment-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Use(middlewares.Authenticate)

	router.With(middlewares.RequireRoles(constvars.RolePatient)).Post("/", appointmentController.CreateAppointment)

	router.Get("/user/{user_id}", appointmentController.FindByPatient)
	router.Get("/user/{user_id}/stats", appointmentController.GetPatientStats)
	router.Get("/user/{user_id}/medical-reports", appointmentController.FindMedicalReports)

	router.Get("/doctor/{doctor_id}", appointmentController.FindByDoctor)
	router.Get("/doctor/{doctor_id}/today", appointmentController.FindTodayByDoctor)

	router.Get("/{appointment_id}", appointmentController.FindByID)
	router.Patch("/{appointment_id}/status", appointmentController.UpdateStatus)
	router.Patch("/{appointment_id}/reschedule", appointmentController.Reschedule)
	router.Patch("/{appointment_id}/rate", appointmentController.Rate)
	router.With(middlewares.RequireRoles(constvars.RoleDoctor)).Post("/{appointment_id}/medical-report", appointmentController.SubmitMedicalReport)
}
