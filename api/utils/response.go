package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"CollectPortal/api/constants"
)

// RespondWithError writes the standard failure envelope.
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		constants.ValueSuccess: false,
		"error":                errMsg,
	})
}

// RespondWithPayload writes {"success": true, <key>: payload}.
func RespondWithPayload(w http.ResponseWriter, status int, key string, payload interface{}) {
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	w.WriteHeader(status)
	resp := map[string]interface{}{constants.ValueSuccess: true}
	if payload != nil {
		resp[key] = payload
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("[ERROR] RespondWithPayload", err)
	}
}

// RespondWithFields merges extra top-level fields into the success envelope.
func RespondWithFields(w http.ResponseWriter, status int, fields map[string]interface{}) {
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	w.WriteHeader(status)
	resp := map[string]interface{}{constants.ValueSuccess: true}
	for k, v := range fields {
		resp[k] = v
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("[ERROR] RespondWithFields", err)
	}
}

// LogInfo logs an informational message (wrapper for consistent logging)
func LogInfo(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+msg, args...)
	} else {
		log.Println("[INFO]", msg)
	}
}

// LogError logs an error message (wrapper for consistent logging)
func LogError(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+msg, args...)
	} else {
		log.Println("[ERROR]", msg)
	}
}
