package cmd

import (
	"github.com/isometry/gh-workflow-relay/internal/config"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
)

const webhookSecretEnv = "WEBHOOK_SECRET"

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda'",
		Short:       helpers.Ptr("m"),
	},
	&config.Relay.WebhookURL: {
		Name:        "webhook",
		Description: "The chat webhook URL receiving failure notifications",
		Short:       helpers.Ptr("w"),
		Env:         helpers.Ptr("WEBHOOK_URL"),
	},
	&config.AWS.SSM.WebhookSecretKey: {
		Name:        "webhook-secret-ssm-key",
		Description: "The SSM parameter holding the webhook secret. Overrides --webhook-secret",
	},
	&config.AWS.SSM.WebhookURLKey: {
		Name:        "webhook-url-ssm-key",
		Description: "The SSM parameter holding the notification webhook URL. Overrides --webhook",
	},
	&config.AWS.S3.DumpBucket: {
		Name:        "dump-s3-bucket",
		Description: "The S3 bucket receiving a copy of every /dump request body",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Relay.EnforceSignature: {
		Name:        "enforce-signature",
		Description: "Reject requests whose signature does not verify instead of logging a warning",
		Short:       helpers.Ptr("e"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Relay.DefaultBranches: {
		Name:        "default-branches",
		Description: "The branches whose workflow failures are notified",
		Short:       helpers.Ptr("b"),
	},
}
