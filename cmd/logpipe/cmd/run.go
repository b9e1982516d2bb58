package cmd

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rstudio/platform-lib/pkg/rslog"
	"github.com/spf13/cobra"

	"github.com/rstudio/logstream/pkg/logstream"
	"github.com/rstudio/logstream/pkg/streamlog"
)

var (
	stdoutLevel string
	stderrLevel string
)

func init() {
	RunCmd.Example = `  logpipe run --stderr-level=WARN -- rsync -av src/ dst/
`
	RunCmd.Flags().StringVar(&stdoutLevel, "stdout-level", string(rslog.InfoLevel), "The level standard output is logged at.")
	RunCmd.Flags().StringVar(&stderrLevel, "stderr-level", string(rslog.ErrorLevel), "The level standard error is logged at.")
	RunCmd.Flags().SetInterspersed(false)

	RootCmd.AddCommand(RunCmd)
}

var RunCmd = &cobra.Command{
	Use:   "run -- command [args...]",
	Short: "Run a command and log its standard output and standard error",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := setup()
		if err != nil {
			return err
		}

		var outLevel, errLevel rslog.LogLevel
		if err := outLevel.UnmarshalText([]byte(stdoutLevel)); err != nil {
			return pkgerrors.Wrap(err, "--stdout-level")
		}
		if err := errLevel.UnmarshalText([]byte(stderrLevel)); err != nil {
			return pkgerrors.Wrap(err, "--stderr-level")
		}

		lgr = lgr.WithFields(rslog.Fields{
			"run_id":  uuid.New().String(),
			"command": args[0],
		})

		outStream, err := logstream.NewCategoryStream(lgr, streamlog.StdoutLog, outLevel, cfg.streamOptions())
		if err != nil {
			return pkgerrors.Wrap(err, "creating stdout stream")
		}
		errStream, err := logstream.NewCategoryStream(lgr, streamlog.StderrLog, errLevel, cfg.streamOptions())
		if err != nil {
			return pkgerrors.Wrap(err, "creating stderr stream")
		}

		child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
		child.Stdin = cmd.InOrStdin()
		stdout, err := child.StdoutPipe()
		if err != nil {
			return pkgerrors.Wrap(err, "connecting stdout")
		}
		stderr, err := child.StderrPipe()
		if err != nil {
			return pkgerrors.Wrap(err, "connecting stderr")
		}

		if err := child.Start(); err != nil {
			return pkgerrors.Wrapf(err, "starting %s", args[0])
		}

		// Each pump owns its own stream and printer.
		var wg sync.WaitGroup
		pumpErrs := make([]error, 2)
		pumps := []struct {
			r io.Reader
			p *logstream.Printer
		}{
			{stdout, logstream.NewPrinter(outStream)},
			{stderr, logstream.NewPrinter(errStream)},
		}
		for i, pump := range pumps {
			wg.Add(1)
			go func(i int, r io.Reader, p *logstream.Printer) {
				defer wg.Done()
				pumpErrs[i] = logstream.Pump(cmd.Context(), r, p)
				if err := p.Close(); err != nil && pumpErrs[i] == nil {
					pumpErrs[i] = err
				}
			}(i, pump.r, pump.p)
		}
		// All output has to be read before Wait closes the pipes.
		wg.Wait()

		waitErr := child.Wait()
		exitCode := child.ProcessState.ExitCode()
		lgr.Debugf("Command %s exited with code %d", args[0], exitCode)

		if waitErr != nil {
			return pkgerrors.Wrapf(waitErr, "running %s", args[0])
		}
		for _, err := range pumpErrs {
			if err != nil {
				return pkgerrors.Wrap(err, "logging command output")
			}
		}
		return nil
	},
}
