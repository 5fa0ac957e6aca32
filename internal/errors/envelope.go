package errors

// Envelope wraps every non-auth API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK builds a successful envelope.
func OK(data interface{}, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// Fail builds a failed envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
