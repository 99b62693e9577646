package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string       `json:"status"`
	Code    int          `json:"code"`
	Message string       `json:"message,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondFieldErrors(c, code, message, nil)
}

func RespondFieldErrors(c *gin.Context, code int, message string, fields []FieldError) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Errors:  fields,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var referenceErr *ItemReferenceError

	switch {
	case errors.As(err, &validationErr):
		RespondFieldErrors(c, http.StatusUnprocessableEntity, "Invalid input", validationErr.Fields)
	case errors.As(err, &referenceErr):
		RespondFieldErrors(c, http.StatusUnprocessableEntity, "Invalid item reference", referenceErr.FieldErrors())
	case errors.Is(err, ErrPointNotFound):
		RespondError(c, http.StatusNotFound, "Point not found")
	case errors.Is(err, ErrStorageFailure):
		log.Printf("Storage failure: %v", err)
		RespondError(c, http.StatusServiceUnavailable, "Could not store the point, please resubmit")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
