// Package notifier dispatches plain-text messages to a chat webhook (Mattermost/Slack compatible).
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/isometry/gh-workflow-relay/internal/helpers"
	"github.com/pkg/errors"
)

// TestMessage is the fixed message sent by the connectivity check.
const TestMessage = "Test message, please ignore"

// Notifier sends a message to the configured sink.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// DispatchError reports a message that could not be handed to the sink.
// The text carries the sink URL, which may embed a credential: log it, never return it to callers.
type DispatchError struct {
	URL   string
	Cause error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch notification to %s: %v", e.URL, e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

type payload struct {
	Text string `json:"text"`
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithLogger sets the logger instance for the notifier.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Webhook) {
		w.logger = logger
	}
}

// WithHTTPClient overrides the HTTP client used for dispatch.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Webhook) {
		w.client = client
	}
}

// Webhook posts `{"text": <message>}` to a fixed URL. One POST per Send, no retry.
// Only transport failures are errors; the sink's status code is logged, not acted upon.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhook returns a Webhook notifier targeting url.
func NewWebhook(url string, opts ...Option) *Webhook {
	_inst := &Webhook{url: url}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.client == nil {
		_inst.client = &http.Client{}
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// URL returns the sink URL.
func (w *Webhook) URL() string {
	return w.url
}

// Send dispatches message. Transport failures are returned as *DispatchError.
func (w *Webhook) Send(ctx context.Context, message string) error {
	w.logger.Debug("sending message", slog.String("message", helpers.Truncate(message, 256)))

	body, err := json.Marshal(payload{Text: message})
	if err != nil {
		return &DispatchError{URL: w.url, Cause: errors.Wrap(err, "failed to encode message")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return &DispatchError{URL: w.url, Cause: errors.Wrap(err, "failed to create request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Error("failed to send message", slog.Any("error", err))
		return &DispatchError{URL: w.url, Cause: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.logger.Warn("notification webhook answered with a non-success status", slog.Int("status", resp.StatusCode))
		return nil
	}

	w.logger.Info("message sent", slog.Int("status", resp.StatusCode))
	return nil
}
