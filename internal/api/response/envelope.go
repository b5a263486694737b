// Package response holds the JSON envelopes every API response is wrapped in.
package response

// Success is the envelope for successful responses.
type Success struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Failure is the envelope for error responses.
type Failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// OK wraps data; success is derived from the status code.
func OK(statusCode int, data any, message string) Success {
	return Success{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// Fail builds a failure envelope. errs is never rendered as null.
func Fail(statusCode int, message string, errs ...string) Failure {
	if errs == nil {
		errs = []string{}
	}
	return Failure{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     errs,
	}
}
