// Package handler implements the relay endpoints: webhook intake, raw dump and test send.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-workflow-relay/internal/filter"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
	"github.com/isometry/gh-workflow-relay/internal/models"
	"github.com/isometry/gh-workflow-relay/internal/notifier"
	"github.com/isometry/gh-workflow-relay/internal/validation"
	"golang.org/x/time/rate"
)

const (
	// DumpAcknowledgment is returned by Dump for every request.
	DumpAcknowledgment = "Ok\n"
	// SendAcknowledgment is returned by Send when the test message was dispatched.
	SendAcknowledgment = "Message sent"
	// DispatchFailure is the body of a 500 caused by the notifier. Details stay in the logs.
	DispatchFailure = "failed to dispatch notification\n"
)

var (
	eventTypeHeader  = strings.ToLower(github.EventTypeHeader)
	deliveryIDHeader = strings.ToLower(github.DeliveryIDHeader)
)

// ObjectStore persists raw request bodies.
type ObjectStore interface {
	PutS3Object(ctx context.Context, bucket string, body []byte) (string, error)
}

// Option is a functional option for Handler.
type Option func(*Handler)

// Handler orchestrates signature verification, event filtering and notification for each request.
// It holds no per-request state and is safe for concurrent use.
type Handler struct {
	logger           *slog.Logger
	webhookSecret    *validation.WebhookSecret
	enforceSignature bool
	filter           *filter.Filter
	notifier         notifier.Notifier
	dumpStore        ObjectStore
	dumpBucket       string
	unenforcedNotice *rate.Sometimes
}

// NewHandler creates a Handler. A notifier is required.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:           helpers.NewNoopLogger(),
		unenforcedNotice: helpers.OnceAMinute(),
	}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.notifier == nil {
		return nil, &NoNotifierError{}
	}
	if _inst.filter == nil {
		_inst.filter = filter.New()
	}
	return _inst, nil
}

// Webhook processes a workflow_run delivery.
func (h *Handler) Webhook(ctx context.Context, req models.Request) (models.Response, error) {
	logger := h.logger
	if eventType, found := req.Header(eventTypeHeader); found {
		logger = logger.With(slog.String("event", eventType))
	}
	if deliveryID, found := req.Header(deliveryIDHeader); found {
		logger = logger.With(slog.String("deliveryID", deliveryID))
	}
	logger.Debug("processing webhook...")

	var signature *string
	if v, found := req.Header(validation.SignatureHeader); found {
		signature = &v
	}
	verified, err := h.webhookSecret.Verify(req.Body, signature)
	if err != nil {
		logger.Warn("malformed signature header", slog.Any("error", err))
		return models.Response{Body: err.Error() + "\n", StatusCode: http.StatusBadRequest}, err
	}
	if !verified {
		if h.enforceSignature {
			err = &SignatureMismatchError{}
			logger.Warn("rejecting request", slog.Any("error", err), slog.Bool("signaturePresent", signature != nil))
			return models.Response{Body: err.Error() + "\n", StatusCode: http.StatusForbidden}, err
		}
		logger.Warn("signature verification failed, continuing", slog.Bool("signaturePresent", signature != nil))
		h.unenforcedNotice.Do(func() {
			logger.Warn("signature enforcement is disabled: unverified requests are processed")
		})
	} else {
		logger.Debug("request signature is valid", slog.Bool("secretConfigured", h.webhookSecret.Configured()))
	}

	event, err := filter.Decode(req.Body)
	if err != nil {
		logger.Warn("failed to decode payload", slog.Any("error", err))
		return models.Response{Body: err.Error() + "\n", StatusCode: http.StatusBadRequest}, err
	}

	logger = logger.With(slog.String("repo", event.GetRepo().GetFullName()))
	logger.Debug("processing event",
		slog.String("sender", event.GetSender().GetLogin()),
		slog.Int64("senderID", event.GetSender().GetID()))

	decision := h.filter.Decide(event)
	logger = logger.With(slog.String("decision", decision.Outcome.String()))
	if run := event.GetWorkflowRun(); run != nil {
		logger = logger.With(
			slog.String("workflow", run.GetName()),
			slog.String("branch", run.GetHeadBranch()),
			slog.String("status", run.GetStatus()),
			slog.String("conclusion", run.GetConclusion()))
	}

	if !decision.Outcome.Send() {
		logger.Info("ignoring event")
		return models.Response{Body: decision.Acknowledgment, StatusCode: http.StatusOK}, nil
	}

	logger.Info("notifying default branch failure")
	// the inbound caller going away does not abort the dispatch
	if err = h.notifier.Send(context.WithoutCancel(ctx), decision.Notification.Message()); err != nil {
		logger.Error("failed to notify", slog.Any("error", err))
		return models.Response{Body: DispatchFailure, StatusCode: http.StatusInternalServerError}, err
	}
	return models.Response{Body: decision.Acknowledgment, StatusCode: http.StatusOK}, nil
}

// Dump logs the raw body verbatim and always acknowledges. The body is never parsed.
func (h *Handler) Dump(ctx context.Context, req models.Request) (models.Response, error) {
	h.logger.Info("dump", slog.String("body", string(req.Body)))

	if h.dumpStore != nil && h.dumpBucket != "" {
		key, err := h.dumpStore.PutS3Object(context.WithoutCancel(ctx), h.dumpBucket, req.Body)
		if err != nil {
			h.logger.Warn("failed to archive dump", slog.Any("error", err))
		} else {
			h.logger.Debug("archived dump", slog.String("bucket", h.dumpBucket), slog.String("key", key))
		}
	}
	return models.Response{Body: DumpAcknowledgment, StatusCode: http.StatusOK}, nil
}

// Send dispatches the fixed test message, independent of the request content.
func (h *Handler) Send(ctx context.Context) (models.Response, error) {
	if err := h.notifier.Send(context.WithoutCancel(ctx), notifier.TestMessage); err != nil {
		h.logger.Error("failed to send test message", slog.Any("error", err))
		return models.Response{Body: DispatchFailure, StatusCode: http.StatusInternalServerError}, err
	}
	h.logger.Info("test message sent")
	return models.Response{Body: SendAcknowledgment, StatusCode: http.StatusOK}, nil
}
