// Package models provides the transport-neutral request and response types shared by the relay runtimes.
package models

// Request represents an incoming client request containing a body and associated headers.
// Header keys are lower-cased by the runtime before the request reaches the handler.
type Request struct {
	Body    []byte
	Headers map[string]string
}

// Header returns the value of the lower-cased header key and whether it was present.
func (r Request) Header(key string) (string, bool) {
	v, ok := r.Headers[key]
	return v, ok
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
