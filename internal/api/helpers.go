package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON response: %v", err)
		}
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	log.Printf("API Error [%d]: %s - %v", statusCode, message, err)

	response := &models.APIResponse{
		Success: false,
		Message: message,
		Error: &models.APIError{
			Code:    fmt.Sprintf("E%d", statusCode),
			Message: message,
		},
	}

	if err != nil {
		response.Error.Details = map[string]string{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, response)
}
