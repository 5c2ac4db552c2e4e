package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var envFile string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envDefault := os.Getenv("ENV_FILE")
	if envDefault == "" {
		envDefault = ".env"
	}

	cmd := &cobra.Command{
		Use:           "quizapi",
		Short:         "Quiz management API: accounts, quizzes, libraries and scores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", envDefault, "path to a .env file")
	cmd.AddCommand(NewServeCmd(&envFile))
	cmd.AddCommand(NewMigrateCmd(&envFile))
	cmd.AddCommand(NewSeedAdminCmd(&envFile))
	return cmd
}
