package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"sweetshop/internal/repository"
	"sweetshop/internal/services"

	"github.com/rs/zerolog"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// respondWithServiceError maps service and repository sentinels onto HTTP
// statuses. Anything unrecognized is a storage-side failure and surfaces as
// a generic 500 so no internal detail crosses the boundary.
func respondWithServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail):
		respondWithError(w, http.StatusBadRequest, "duplicate_email", "Email already exists")
	case errors.Is(err, repository.ErrDuplicateName):
		respondWithError(w, http.StatusBadRequest, "duplicate_name", "Sweet name already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, repository.ErrSweetNotFound):
		respondWithError(w, http.StatusNotFound, "not_found", "Sweet not found")
	case errors.Is(err, repository.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, repository.ErrOutOfStock):
		respondWithError(w, http.StatusBadRequest, "out_of_stock", "Sweet is out of stock")
	default:
		logger.Error().Err(err).Msg("Unexpected error")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
