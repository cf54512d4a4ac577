package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/skuehn/lernbox/internal/api/shared"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/domain/leitner"
	"github.com/skuehn/lernbox/internal/service"
	"github.com/skuehn/lernbox/internal/service/auth"
	"github.com/skuehn/lernbox/internal/snapshot"
	"github.com/skuehn/lernbox/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Every
// handler routes errors through this single mapping so a given failure
// always produces the same status.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. Session lookups fold ownership mismatches into
	// the same error, so foreign session IDs also land here.
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: duplicate email or archive name, and drawing from
	// a session that has no cards to offer.
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, leitner.ErrEmptyPool):
		return http.StatusConflict

	// Archive data that cannot fit the requested compartment layout
	case errors.Is(err, snapshot.ErrTierOutOfRange):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, snapshot.ErrMalformed),
		errors.Is(err, leitner.ErrCompartmentCount),
		errors.Is(err, leitner.ErrWeightCount),
		errors.Is(err, leitner.ErrWeightValue),
		errors.Is(err, leitner.ErrHistorySize),
		errors.Is(err, leitner.ErrEmptyLanguage),
		errors.Is(err, domain.ErrEmptyVocabulary),
		errors.Is(err, domain.ErrEmptyDefinition),
		errors.Is(err, domain.ErrDuplicateCard):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Internal detail stays in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSnapshotNotFound):
		return "Snapshot not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrSnapshotNameExists):
		return "Snapshot name already exists"

	case errors.Is(err, leitner.ErrEmptyPool):
		return "No cards available to draw"

	// Archive shape
	case errors.Is(err, snapshot.ErrTierOutOfRange):
		return "Archive does not fit the requested compartment count"

	case errors.Is(err, snapshot.ErrMalformed):
		return "Malformed snapshot data"

	// Bad request errors
	case errors.Is(err, leitner.ErrCompartmentCount),
		errors.Is(err, leitner.ErrWeightCount),
		errors.Is(err, leitner.ErrWeightValue),
		errors.Is(err, leitner.ErrHistorySize),
		errors.Is(err, leitner.ErrEmptyLanguage):
		return "Invalid box configuration"

	case errors.Is(err, domain.ErrEmptyVocabulary),
		errors.Is(err, domain.ErrEmptyDefinition),
		errors.Is(err, domain.ErrDuplicateCard):
		return "Invalid card list"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		// Field-level validation carries a safe field name of its own.
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return "Invalid " + validationErr.Field
		}
		return "Validation error"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err onto a status code and safe message and writes
// the JSON error envelope. A non-empty message overrides the derived one.
// The full error is logged in redacted form, never sent to the client.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	statusCode := MapErrorToStatusCode(err)

	safeMessage := message
	if safeMessage == "" {
		safeMessage = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// SanitizeValidationError reduces a request validation failure to a message
// naming the first failing field without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// validationTagMessage maps validator tags to user-facing fragments.
func validationTagMessage(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "value too small"
	case "lt", "lte":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
