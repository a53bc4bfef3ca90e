// Package cmd provides the entrypoint for the gh-workflow-relay cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/gh-workflow-relay/internal/config"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFilePath = "config.yaml"

var (
	configFilePath string
	logger         = helpers.NewNoopLogger()
	webhookSecret  string
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the gh-workflow-relay.
func New() *cobra.Command {
	return newRootCommand(os.Args[1:])
}

// newRootCommand builds the command tree, seeding flag defaults from the configuration file named in args.
func newRootCommand(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gh-workflow-relay",
		Short:         "Relay failed GitHub workflow runs on default branches to a chat webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				AddSource: config.Global.Logging.CallerTrace,
				Level:     slog.LevelWarn - slog.Level(config.Global.Logging.Verbosity*4),
			}))
			resolveWebhookSecret(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd, args)
			case config.ModeLambda:
				return runLambda(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Configuration loading & defaults
	configFilePath = preloadConfigPath(args)
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "path to the configuration file")
	cmd.PersistentFlags().StringVarP(&webhookSecret, "webhook-secret", "s", "",
		fmt.Sprintf("[%s] The shared secret used to verify the %s header. If not specified, no validation is performed", webhookSecretEnv, "X-Hub-Signature-256"))
	_ = viper.BindPFlag("webhook-secret", cmd.PersistentFlags().Lookup("webhook-secret"))
	_ = viper.BindEnv("webhook-secret", webhookSecretEnv)

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdService(),
		cmdLambda(),
		cmdSend(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapStringSlice)
	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	bindEnvMap(cmd, lambdaEnvMapString)
}

// resolveWebhookSecret sets the relay secret when provided by flag or environment.
// Otherwise the value from the configuration file, possibly absent, is kept.
func resolveWebhookSecret(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("webhook-secret"); f != nil && f.Changed {
		config.Relay.WebhookSecret = helpers.Ptr(webhookSecret)
		return
	}
	if v, found := os.LookupEnv(webhookSecretEnv); found {
		config.Relay.WebhookSecret = helpers.Ptr(v)
	}
}
