package cmd

// Copyright (C) 2026 by Posit Software, PBC.

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/rstudio/platform-lib/pkg/rslog"
	"github.com/spf13/cobra"

	"github.com/rstudio/logstream/pkg/logstream"
)

var pipeCategory string

func init() {
	PipeCmd.Example = `  some-tool 2>&1 | logpipe pipe --level=WARN --category=SOME-TOOL
`
	PipeCmd.Flags().StringVar(&pipeCategory, "category", "PIPE", "The category lines are logged under.")

	RootCmd.AddCommand(PipeCmd)
}

var PipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Log every line read from standard input",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := setup()
		if err != nil {
			return err
		}

		stream, err := logstream.NewCategoryStream(lgr, rslog.LogCategory(pipeCategory), cfg.Level, cfg.streamOptions())
		if err != nil {
			return pkgerrors.Wrap(err, "creating stream")
		}
		printer := logstream.NewPrinter(stream)

		err = logstream.Pump(cmd.Context(), cmd.InOrStdin(), printer)
		cerr := printer.Close()
		if err != nil {
			return pkgerrors.Wrap(err, "reading standard input")
		}
		return cerr
	},
}
