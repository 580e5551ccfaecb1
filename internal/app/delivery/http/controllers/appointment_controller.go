package controllers

import (
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/dto/requests"
	"clinic-appointment-service/internal/pkg/dto/responses"
	"clinic-appointment-service/internal/pkg/exceptions"
	"clinic-appointment-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
}

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	return &AppointmentController{
		Log:                logger,
		AppointmentUsecase: appointmentUsecase,
	}
}

func (ctrl *AppointmentController) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "CreateAppointment")
	if !ok {
		return
	}

	request := new(requests.CreateAppointment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment error decoding body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.CreateAppointment(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "CreateAppointment", err)
		return
	}

	ctrl.Log.Info("AppointmentController.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAppointmentSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "FindByID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.FindByID(ctx, actor, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		ctrl.fail(w, requestID, "FindByID", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "UpdateStatus")
	if !ok {
		return
	}

	request := new(requests.UpdateAppointmentStatus)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.AppointmentID = chi.URLParam(r, constvars.URLParamAppointmentID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.ChangeStatus(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "UpdateStatus", err)
		return
	}

	ctrl.Log.Info("AppointmentController.UpdateStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.String(constvars.LoggingToStatusKey, appointment.Status.String()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateAppointmentStatusSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) Reschedule(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "Reschedule")
	if !ok {
		return
	}

	request := new(requests.RescheduleAppointment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.AppointmentID = chi.URLParam(r, constvars.URLParamAppointmentID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.Reschedule(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "Reschedule", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RescheduleAppointmentSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) Rate(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "Rate")
	if !ok {
		return
	}

	request := new(requests.RateAppointment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.AppointmentID = chi.URLParam(r, constvars.URLParamAppointmentID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.Rate(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "Rate", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RateAppointmentSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) SubmitMedicalReport(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "SubmitMedicalReport")
	if !ok {
		return
	}

	request := new(requests.SubmitMedicalReport)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.AppointmentID = chi.URLParam(r, constvars.URLParamAppointmentID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.SubmitMedicalReport(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "SubmitMedicalReport", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitMedicalReportSuccessMessage, responses.NewAppointment(appointment))
}

func (ctrl *AppointmentController) FindByPatient(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "FindByPatient")
	if !ok {
		return
	}

	request := &requests.FindPatientAppointments{
		PatientID: chi.URLParam(r, constvars.URLParamUserID),
		Status:    r.URL.Query().Get(constvars.URLQueryParamStatus),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.FindByPatient(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "FindByPatient", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentsSuccessMessage, responses.NewAppointments(appointments))
}

func (ctrl *AppointmentController) GetPatientStats(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "GetPatientStats")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := ctrl.AppointmentUsecase.GetPatientStats(ctx, actor, chi.URLParam(r, constvars.URLParamUserID))
	if err != nil {
		ctrl.fail(w, requestID, "GetPatientStats", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentStatsSuccessMessage, stats)
}

func (ctrl *AppointmentController) FindMedicalReports(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "FindMedicalReports")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	reports, err := ctrl.AppointmentUsecase.FindMedicalReportsByPatient(ctx, actor, chi.URLParam(r, constvars.URLParamUserID))
	if err != nil {
		ctrl.fail(w, requestID, "FindMedicalReports", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetMedicalReportsSuccessMessage, reports)
}

func (ctrl *AppointmentController) FindByDoctor(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "FindByDoctor")
	if !ok {
		return
	}

	query := r.URL.Query()
	request := &requests.FindDoctorAppointments{
		DoctorID: chi.URLParam(r, constvars.URLParamDoctorID),
		Date:     query.Get(constvars.URLQueryParamDate),
		Status:   query.Get(constvars.URLQueryParamStatus),
	}
	ctrl.Log.Info("AppointmentController.FindByDoctor query parameters",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Any(constvars.LoggingQueryParamsKey, request),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.FindByDoctor(ctx, actor, request)
	if err != nil {
		ctrl.fail(w, requestID, "FindByDoctor", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentsSuccessMessage, responses.NewAppointments(appointments))
}

func (ctrl *AppointmentController) FindTodayByDoctor(w http.ResponseWriter, r *http.Request) {
	requestID, actor, ok := ctrl.identify(w, r, "FindTodayByDoctor")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.FindTodayByDoctor(ctx, actor, chi.URLParam(r, constvars.URLParamDoctorID))
	if err != nil {
		ctrl.fail(w, requestID, "FindTodayByDoctor", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentsSuccessMessage, responses.NewAppointments(appointments))
}

// identify pulls the request id and the authenticated actor off the context and
// answers 401 itself when the actor is missing.
func (ctrl *AppointmentController) identify(w http.ResponseWriter, r *http.Request, method string) (string, models.Actor, bool) {
	requestID := utils.GetRequestID(r.Context())
	actor, ok := utils.GetActor(r.Context())
	if !ok {
		ctrl.Log.Error("AppointmentController."+method+" actor not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrActorMissing(nil))
		return requestID, models.Actor{}, false
	}

	ctrl.Log.Info("AppointmentController."+method+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActorIDKey, actor.UserID),
		zap.String(constvars.LoggingActorRoleKey, actor.Role),
	)
	return requestID, actor, true
}

func (ctrl *AppointmentController) fail(w http.ResponseWriter, requestID, method string, err error) {
	ctrl.Log.Error("AppointmentController."+method+" error calling AppointmentUsecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)

	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}
