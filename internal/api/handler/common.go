package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{
		Code:    status,
		Message: message,
	})
}

// handleError converts domain errors to HTTP errors. Backend failure text is
// preserved verbatim in the details field; operators match on it.
func handleError(w http.ResponseWriter, err error) {
	var bulkErr *domain.BulkError
	if errors.As(err, &bulkErr) {
		respondJSON(w, http.StatusBadGateway, &domain.APIError{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("%d items failed", len(bulkErr.Items)),
			Details: bulkErr.Error(),
		})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, "validation failed"
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrConnection):
		status, message = http.StatusBadGateway, "server connection failed"
	case errors.Is(err, domain.ErrRemoteOperation):
		status, message = http.StatusBadGateway, "remote operation failed"
	}
	respondJSON(w, status, &domain.APIError{
		Code:    status,
		Message: message,
		Details: err.Error(),
	})
}

// decodeJSON decodes JSON from request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return nil
}

// generateID generates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// generateAPIKey generates a new random API key.
func generateAPIKey() (key string, hash string, prefix string, err error) {
	// Generate 32 random bytes for the key
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}

	key = "dm_" + hex.EncodeToString(bytes)
	hash = hashKey(key)
	prefix = key[:11] // "dm_" + first 8 chars of hex

	return key, hash, prefix, nil
}

// hashKey creates a SHA-256 hash of the API key.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
