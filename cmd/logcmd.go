package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/tasker/internal/logging"
)

func logCommand(a *app, args []string) error {
	fs := a.newFlagSet("log")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 20, "Number of lines to show (0 = all)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if _, err := os.Stat(a.cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(a.out, "No activity log yet.")
		return nil
	}
	if *follow {
		fmt.Fprintf(a.errOut, "Tailing %s (Ctrl+C to stop)\n", a.cfg.LogFile)
	}
	return logging.TailLog(a.ctx, a.out, a.cfg.LogFile, *n, *follow)
}
