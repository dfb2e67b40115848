package cli

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"quiz-reader/internal/config"
	"quiz-reader/internal/quizfile"
	"quiz-reader/internal/report"
)

// NewReportCmd prints every record of a quiz file; it is also what the bare
// root command runs.
func NewReportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report [file]",
		Short: "Print every question, its options and the resolved answer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, path)
		},
	}
}

func runReport(out, errOut io.Writer, flags *globalFlags, path string) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if path != "" {
		cfg.Input.File = path
	}

	reader := quizfile.NewReader(cfg.Input.File, readerOptions(cfg, errOut)...)
	defer reader.Close()

	_, err = report.Run(out, reader, report.Options{Verbose: cfg.Verbose})
	return err
}

func readerOptions(cfg config.Config, debugOut io.Writer) []quizfile.Option {
	opts := []quizfile.Option{quizfile.WithLimits(cfg.Limits())}
	if cfg.Verbose {
		opts = append(opts, quizfile.WithDebugLogger(log.New(debugOut, "debug: ", 0)))
	}
	return opts
}
