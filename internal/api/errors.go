package api

import "fmt"

// DefaultErrorMessage is used when a failed response carries no `error` field.
const DefaultErrorMessage = "Ошибка запроса"

// RequestError is the single error type of the API client. It covers
// transport failures, undecodable bodies and error responses alike.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail is a log-friendly rendering that includes the request line.
func (e *RequestError) Detail() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}
