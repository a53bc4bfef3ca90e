package helpers

import (
	"net/http"

	"github.com/isometry/gh-workflow-relay/internal/models"
)

// RespondHTTP writes response to rw as a plain-text body.
// When err is set and the response carries no body, the error text is used instead.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	body := response.Body
	if body == "" && err != nil {
		body = err.Error() + "\n"
	}

	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	if rw.Header().Get("Content-Type") == "" {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(body))
}
