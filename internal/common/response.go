package common

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the uniform success envelope returned by every handler.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// APIError is the uniform failure envelope. No internal detail leaks past it.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, APIError{StatusCode: code, Message: message, Success: false})
}

func RespondWithData(w http.ResponseWriter, code int, data interface{}, message string) {
	RespondWithJSON(w, code, APIResponse{StatusCode: code, Data: data, Message: message, Success: true})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"statusCode":500,"message":"Failed to marshal JSON response","success":false}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
