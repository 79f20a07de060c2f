package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse interface {
	error
	Code() int
}

type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Code() int {
	return e.Status
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Kind, e.Message)
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

var (
	InternalServerError   = &APIError{Status: http.StatusInternalServerError, Kind: "InternalServerError", Message: "Something went wrong on our side"}
	MalformedBodyError    = &APIError{Status: http.StatusBadRequest, Kind: "MalformedBody", Message: "Could not understand the request body"}
	NotFoundError         = &APIError{Status: http.StatusNotFound, Kind: "NotFound", Message: "The requested resource was not found"}
	InvalidAuthTokenError = &APIError{Status: http.StatusUnauthorized, Kind: "InvalidAuthToken", Message: "Missing or invalid authentication token"}
	InvalidLoginError     = &APIError{Status: http.StatusUnauthorized, Kind: "InvalidLogin", Message: "The username or password is incorrect"}
	TooManyRequestsError  = &APIError{Status: http.StatusTooManyRequests, Kind: "TooManyRequests", Message: "Too many attempts, slow down"}
	DivisionNotFoundError = &APIError{Status: http.StatusUnprocessableEntity, Kind: "DivisionNotFound", Message: "The selected division does not exist"}

	FieldBlankError = &APIError{Status: http.StatusBadRequest, Kind: "FieldBlank",
		Message: "One or more of the fields are blank. Please fill them out and try again."}
	EndBeforeStartError = &APIError{Status: http.StatusBadRequest, Kind: "EndBeforeStart",
		Message: "The starting time for the appointment is not before the ending time. The ending time must occur after the starting time."}
)

func NewSimple(status int, message string) *APIError {
	return &APIError{Status: status, Kind: http.StatusText(status), Message: message}
}

func NewMissingParamError(param string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Kind: "MissingParam", Message: fmt.Sprintf("Missing required parameter %q", param)}
}

func NewInvalidParamTypeError(param, expected string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Kind: "InvalidParamType", Message: fmt.Sprintf("Parameter %q must be of type %s", param, expected)}
}

func NewTimeFormatError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Kind:    "TimeFormatInvalid",
		Message: "One or both of the provided times are not formatted correctly. Please enter times as a standard 12-hour or 24-hour time format and try again.",
		Details: cause.Error(),
	}
}

func NewOutsideOfficeHoursError(open, close string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Kind:    "OutsideOfficeHours",
		Message: fmt.Sprintf("The appointment time occurs outside of office hours. Office hours are from %s-%s EST every day.", open, close),
	}
}

func NewConflictingAppointmentsError(conflicts []string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Kind:    "ConflictingAppointments",
		Message: "One or more appointments conflict with the specified appointment times.",
		Details: conflicts,
	}
}

func FromValidationError(err error) *APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	details := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		details[i] = FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return &APIError{
		Status:  http.StatusBadRequest,
		Kind:    "ValidationFailed",
		Message: "One or more fields are invalid",
		Details: details,
	}
}
