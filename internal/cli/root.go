package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"quiz-reader/internal/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	file       string
	port       string
	verbose    bool
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:          "quiz-reader",
		Short:        "Read four-line quiz files, report them, and host them as live quizzes",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, "")
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVarP(&flags.file, "file", "f", os.Getenv("QUIZ_FILE"), "quiz file to read (default from config, then english.txt)")
	cmd.PersistentFlags().StringVar(&flags.port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every raw line and dump option characters")
	cmd.AddCommand(NewReportCmd(flags))
	cmd.AddCommand(NewImportCmd(flags))
	cmd.AddCommand(NewMigrateCmd(flags))
	cmd.AddCommand(NewServeCmd(flags))
	return cmd
}

// load reads the config file and applies command-line overrides.
func (f *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.file != "" {
		cfg.Input.File = f.file
	}
	if f.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
