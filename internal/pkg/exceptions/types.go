package exceptions

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"fmt"
	"strings"
)

var (
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidation, paramName)).withKind(KindValidationFailed)
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed).withKind(KindValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON).withKind(KindValidationFailed)
	}
	ErrInvalidFormat = func(err error, source string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevInvalidFormat, source)).withKind(KindValidationFailed)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON).withKind(KindStorage)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded).withKind(KindTimeout)
	}
	ErrServerPanicRecovered = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerPanicRecovered)
	}
)

// Authentication
var (
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing).withKind(KindUnauthorized)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired).withKind(KindUnauthorized)
	}
	ErrTokenClaimsMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenClaimsMissing).withKind(KindUnauthorized)
	}
	ErrActorMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthActorMissing).withKind(KindUnauthorized)
	}
	ErrRoleNotAllowed = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevAuthPermissionDenied, role)).withKind(KindForbidden)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrClientTooManyRequests)
	}
)

// Appointment
var (
	ErrAppointmentNotFound = func(err error, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientAppointmentNotFound, fmt.Sprintf(constvars.ErrDevAppointmentNotFound, appointmentID)).withKind(KindNotFound)
	}
	ErrClinicNotFound = func(err error, clinicID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientClinicNotFound, fmt.Sprintf(constvars.ErrDevClinicNotFound, clinicID)).withKind(KindNotFound)
	}
	ErrInvalidStatus = func(err error, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidStatus, fmt.Sprintf(constvars.ErrDevInvalidStatus, status)).withKind(KindInvalidStatus)
	}
	ErrIllegalTransition = func(err error, from, to string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientIllegalTransition, fmt.Sprintf(constvars.ErrDevIllegalTransition, from, to)).withKind(KindIllegalTransition)
	}
	ErrSlotConflict = func(err error, doctorID, date, slotTime string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSlotConflict, fmt.Sprintf(constvars.ErrDevSlotConflict, doctorID, date, slotTime)).withKind(KindSlotConflict)
	}
	ErrSlotLocked = func(err error, lockKey string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSlotConflict, fmt.Sprintf(constvars.ErrDevSlotLocked, lockKey)).withKind(KindSlotConflict)
	}
	ErrSlotInPast = func(err error, date, slotTime string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientSlotInPast, fmt.Sprintf(constvars.ErrDevSlotInPast, date, slotTime)).withKind(KindValidationFailed)
	}
	ErrNotReschedulable = func(err error, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientNotReschedulable, fmt.Sprintf(constvars.ErrDevNotReschedulable, status)).withKind(KindNotReschedulable)
	}
	ErrNotCompleted = func(err error, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientNotCompleted, fmt.Sprintf(constvars.ErrDevNotCompleted, status)).withKind(KindNotCompleted)
	}
	ErrInvalidRating = func(err error, rating int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidRating, fmt.Sprintf(constvars.ErrDevInvalidRating, rating)).withKind(KindInvalidRating)
	}
	ErrMissingFields = func(err error, fields []string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientMissingFields, fmt.Sprintf(constvars.ErrDevMissingFields, strings.Join(fields, ", "))).withKind(KindMissingFields)
	}
	ErrConcurrentModification = func(err error, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientConcurrentModification, fmt.Sprintf(constvars.ErrDevConcurrentModification, appointmentID)).withKind(KindConcurrentModification)
	}
	ErrNotAppointmentParticipant = func(err error, actorID, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAppointmentParticipant, fmt.Sprintf(constvars.ErrDevNotAppointmentParticipant, actorID, appointmentID)).withKind(KindForbidden)
	}
	ErrDoctorNotAssignedToReport = func(err error, doctorID, appointmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientDoctorNotAssignedToReport, fmt.Sprintf(constvars.ErrDevDoctorNotAssignedToReport, doctorID, appointmentID)).withKind(KindForbidden)
	}
	ErrUserMismatch = func(err error, actorID, userID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientUserMismatch, fmt.Sprintf(constvars.ErrDevUserMismatch, actorID, userID)).withKind(KindForbidden)
	}
)

// Storage
var (
	ErrMongoDBNotObjectID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevDBStringNotObjectID).withKind(KindValidationFailed)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument).withKind(KindStorage)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument).withKind(KindStorage)
	}
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument).withKind(KindStorage)
	}
	ErrMongoDBDecodeDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDecodeDocument).withKind(KindStorage)
	}
	ErrMongoDBAggregate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToAggregate).withKind(KindStorage)
	}
	ErrMongoDBCreateIndex = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToCreateIndex).withKind(KindStorage)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSet).withKind(KindStorage)
	}
	ErrRedisGet = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisGet, key)).withKind(KindStorage)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDelete).withKind(KindStorage)
	}
	ErrRedisExpire = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisExpire).withKind(KindStorage)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisLockNotOwned).withKind(KindStorage)
	}
	ErrMailerPublish = func(err error, queue string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMailerPublish, queue))
	}
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioCreateObject, bucketName)).withKind(KindStorage)
	}
)
