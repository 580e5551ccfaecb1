package exceptions

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"runtime"
)

// Kind classifies a CustomError independently of its HTTP status, since several
// appointment failures share the same status code.
type Kind string

const (
	KindUnknown                Kind = ""
	KindNotFound               Kind = "NOT_FOUND"
	KindValidationFailed       Kind = "VALIDATION_FAILED"
	KindInvalidStatus          Kind = "INVALID_STATUS"
	KindIllegalTransition      Kind = "ILLEGAL_TRANSITION"
	KindSlotConflict           Kind = "SLOT_CONFLICT"
	KindNotReschedulable       Kind = "NOT_RESCHEDULABLE"
	KindNotCompleted           Kind = "NOT_COMPLETED"
	KindInvalidRating          Kind = "INVALID_RATING"
	KindMissingFields          Kind = "MISSING_FIELDS"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindForbidden              Kind = "FORBIDDEN"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindStorage                Kind = "STORAGE_ERROR"
	KindTimeout                Kind = "TIMEOUT"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	Code          Kind       `json:"code,omitempty"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	cause         error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

func (e *CustomError) withKind(kind Kind) *CustomError {
	e.Code = kind
	return e
}

// BuildNewCustomError records the caller of the error factory as the location.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(2)},
		cause:         err,
	}
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(2)},
	}
}

func WrapWithError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    fmt.Sprintf("%s: %s", devMessage, err.Error()),
		Locations:     []Location{getLocation(2)},
		cause:         err,
	}
}

// KindOf returns the Kind of the first CustomError in err's chain.
func KindOf(err error) Kind {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return KindUnknown
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
