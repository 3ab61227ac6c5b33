package dto

// Response is the common envelope for every endpoint.
// swagger:model
type Response struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Transfer successfully."`
	Data    interface{} `json:"data,omitempty"`
}

func Success(message string, data interface{}) Response {
	return Response{Status: "success", Message: message, Data: data}
}

func Error(message string) Response {
	return Response{Status: "error", Message: message}
}
