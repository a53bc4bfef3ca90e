package cmd

import (
	"context"

	"github.com/isometry/gh-workflow-relay/internal/config"
	awsctl "github.com/isometry/gh-workflow-relay/internal/controllers/aws"
	"github.com/isometry/gh-workflow-relay/internal/filter"
	"github.com/isometry/gh-workflow-relay/internal/handler"
	"github.com/isometry/gh-workflow-relay/internal/notifier"
	"github.com/isometry/gh-workflow-relay/internal/runtime"
	"github.com/pkg/errors"
)

// setupHandler resolves the relay configuration and wires the request handler.
func setupHandler(ctx context.Context) (*handler.Handler, error) {
	var store *awsctl.Controller
	if config.AWS.Enabled() {
		logger.Debug("creating AWS controller...")
		var err error
		store, err = awsctl.NewController(
			awsctl.WithContext(ctx),
			awsctl.WithLogger(logger.With("component", "aws-controller")))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		if err = config.ResolveSecrets(ctx, store); err != nil {
			return nil, err
		}
	}

	relay := config.Relay.Snapshot()
	if err := relay.Validate(); err != nil {
		return nil, err
	}

	opts := []handler.Option{
		handler.WithLogger(logger.With("component", "relay-handler")),
		handler.WithWebhookSecret(relay.WebhookSecret),
		handler.WithEnforceSignature(relay.EnforceSignature),
		handler.WithNotifier(notifier.NewWebhook(relay.WebhookURL,
			notifier.WithLogger(logger.With("component", "notifier")))),
		handler.WithFilter(filter.New(filter.WithDefaultBranches(relay.DefaultBranches...))),
	}
	if store != nil && config.AWS.S3.DumpBucket != "" {
		opts = append(opts, handler.WithDumpArchive(store, config.AWS.S3.DumpBucket))
	}

	logger.Debug("creating relay handler...",
		"webhook", relay.WebhookURL,
		"signatureVerification", relay.WebhookSecret != nil,
		"enforceSignature", relay.EnforceSignature,
		"defaultBranches", relay.DefaultBranches)
	return handler.NewHandler(opts...)
}

func setupRuntime(ctx context.Context) (*runtime.Runtime, error) {
	hdl, err := setupHandler(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create relay handler")
	}
	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
