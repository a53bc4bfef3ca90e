package handler

import (
	"log/slog"

	"github.com/isometry/gh-workflow-relay/internal/filter"
	"github.com/isometry/gh-workflow-relay/internal/notifier"
	"github.com/isometry/gh-workflow-relay/internal/validation"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithWebhookSecret configures the shared secret used to verify request signatures.
// A nil secret disables verification.
func WithWebhookSecret(secret *string) Option {
	return func(h *Handler) {
		h.webhookSecret = validation.NewWebhookSecret(secret)
	}
}

// WithEnforceSignature rejects requests whose signature does not verify instead of logging a warning.
func WithEnforceSignature(enforce bool) Option {
	return func(h *Handler) {
		h.enforceSignature = enforce
	}
}

// WithNotifier sets the sink used for failure and test notifications.
func WithNotifier(n notifier.Notifier) Option {
	return func(h *Handler) {
		h.notifier = n
	}
}

// WithFilter overrides the default event filter.
func WithFilter(f *filter.Filter) Option {
	return func(h *Handler) {
		h.filter = f
	}
}

// WithDumpArchive stores every dumped body in bucket through store, in addition to logging it.
func WithDumpArchive(store ObjectStore, bucket string) Option {
	return func(h *Handler) {
		h.dumpStore = store
		h.dumpBucket = bucket
	}
}
