package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// decodeBody parses and validates a JSON body into dst. On failure the 400
// response has already been written and false is returned.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	requestID := middleware.GetRequestIDFromContext(r.Context())

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}

// pathID reads a UUID path parameter. On failure the 400 response has
// already been written and false is returned.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := utils.ValidateUUID(id); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid "+name+" format", nil)
		return "", false
	}
	return id, true
}

// callerID returns the verified subject. RequireAuth guarantees it is set on
// protected routes; the 401 is written if it is not.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.GetUserIDFromContext(r.Context())
	if id == "" {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return "", false
	}
	return id, true
}
