package cmd

import (
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/gh-workflow-relay/internal/config"
	"github.com/isometry/gh-workflow-relay/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve the relay as an AWS Lambda function behind API Gateway v2 or a function URL",
		RunE:  runLambda,
	}
}

func runLambda(cmd *cobra.Command, _ []string) error {
	switch config.Lambda.PayloadType {
	case runtime.PayloadAPIGatewayV2, runtime.PayloadLambdaURL:
	default:
		return fmt.Errorf("unsupported lambda payload type: %s", config.Lambda.PayloadType)
	}

	logger = logger.With("mode", config.ModeLambda)
	rt, err := setupRuntime(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}

	logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
	lambda.StartWithOptions(rt.Lambda,
		lambda.WithContext(cmd.Context()))
	return nil
}
