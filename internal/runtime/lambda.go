package runtime

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/gh-workflow-relay/internal/models"
)

// Supported Lambda payload types. Function URLs share the API Gateway v2 payload format.
const (
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

// Lambda is the API Gateway v2 / function URL handler for the runtime.
// Routing matches the last path element so stage prefixes are tolerated.
// Errors are encoded in the response status; the returned error is always nil.
func (r *Runtime) Lambda(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	p := req.RawPath
	if p == "" {
		p = req.RequestContext.HTTP.Path
	}
	logger := r.logger.With(
		slog.String("method", method),
		slog.String("path", p),
		slog.String("requestID", req.RequestContext.RequestID))
	logger.Debug("received lambda request")

	var fn endpoint
	switch "/" + path.Base(p) {
	case PathWebhook:
		fn = r.handler.Webhook
	case PathDump:
		fn = r.handler.Dump
	case PathSend:
		fn = func(ctx context.Context, _ models.Request) (models.Response, error) {
			return r.handler.Send(ctx)
		}
	default:
		return lambdaResponse(models.Response{Body: "not found\n", StatusCode: http.StatusNotFound}), nil
	}
	if !strings.EqualFold(method, http.MethodPost) {
		return lambdaResponse(models.Response{Body: "method not allowed\n", StatusCode: http.StatusMethodNotAllowed}), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			logger.Warn("failed to decode base64 body", slog.Any("error", err))
			return lambdaResponse(models.Response{Body: "invalid base64 body\n", StatusCode: http.StatusBadRequest}), nil
		}
		body = decoded
	}

	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		headers[strings.ToLower(k)] = v
	}

	result, err := fn(ctx, models.Request{Body: body, Headers: headers})
	if err != nil {
		logger.Info("request failed", slog.Int("status", result.StatusCode), slog.Any("error", err))
	}
	return lambdaResponse(result), nil
}

func lambdaResponse(resp models.Response) events.APIGatewayV2HTTPResponse {
	headers := map[string]string{"Content-Type": "text/plain; charset=utf-8"}
	for k, v := range resp.Headers {
		headers[k] = v
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       resp.Body,
	}
}
