package handlers

import (
	"net/http"

	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

var errorStatus = map[services.ErrorType]int{
	services.ErrorTypeNotFound:     http.StatusNotFound,
	services.ErrorTypeValidation:   http.StatusBadRequest,
	services.ErrorTypeUnauthorized: http.StatusUnauthorized,
	services.ErrorTypeForbidden:    http.StatusForbidden,
	services.ErrorTypeConflict:     http.StatusConflict,
	services.ErrorTypeExternal:     http.StatusBadGateway,
	services.ErrorTypeInternal:     http.StatusInternalServerError,
}

// HandleServiceError maps domain errors to HTTP responses. Clients see the
// domain message; causes of 5xx replies are logged, never returned.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	errType := services.TypeOf(err)
	status, ok := errorStatus[errType]
	if !ok {
		logger.Error("unhandled error type", zap.Error(err))
		writeOrLog(utils.WriteInternalServerError(w, "An unexpected error occurred"), logger)
		return
	}

	msg := services.PublicMessage(err, "")
	switch errType {
	case services.ErrorTypeInternal:
		logger.Error("internal server error", zap.Error(err))
		msg = "An internal error occurred"
	case services.ErrorTypeExternal:
		logger.Warn("upstream error", zap.Error(err))
	}

	writeOrLog(utils.WriteError(w, status, msg, services.GetErrorDetails(err)), logger)
}

// HandleValidationError writes the 400 for a body that failed validation
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	fields := utils.GetValidationFields(err)
	if fields == nil {
		writeOrLog(utils.WriteBadRequest(w, err.Error(), nil), logger)
		return
	}

	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	writeOrLog(utils.WriteBadRequest(w, "Validation failed", details), logger)
}

func writeOrLog(err error, logger *zap.Logger) {
	if err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}
