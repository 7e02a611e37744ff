// Package handler exposes the trading core over HTTP.
package handler

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func success(data any) apiResponse {
	return apiResponse{Success: true, Data: data}
}

func successMsg(message string, data any) apiResponse {
	return apiResponse{Success: true, Message: message, Data: data}
}

func failure(message string) apiResponse {
	return apiResponse{Success: false, Message: message}
}
