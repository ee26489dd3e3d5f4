package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker/internal/config"
	"github.com/nibzard/tasker/internal/logging"
	"github.com/nibzard/tasker/internal/storage"
	"github.com/nibzard/tasker/internal/store"
)

// nowFunc is the CLI clock.
var nowFunc = time.Now

// app carries what every command needs.
type app struct {
	ctx      context.Context
	cfg      *config.Config
	sources  *config.ConfigWithSources
	logger   *log.Logger
	activity *logging.ActivityLog
	store    *store.Store
	repo     *storage.Repository
	out      io.Writer
	errOut   io.Writer
	colors   palette
	now      func() time.Time

	saveMu sync.Mutex
}

func newApp(ctx context.Context, cws *config.ConfigWithSources, stdout, stderr io.Writer) *app {
	cfg := cws.Config
	a := &app{
		ctx:     ctx,
		cfg:     cfg,
		sources: cws,
		out:     stdout,
		errOut:  stderr,
		colors:  newPalette(cfg.ColoredOutput),
		now:     nowFunc,
	}

	opts, err := logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		opts = logging.DefaultOptions()
	}
	activity, err := logging.OpenActivityLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: activity log disabled: %v\n", err)
		opts.Level = log.WarnLevel
		a.logger = logging.New(stderr, opts)
	} else {
		a.activity = activity
		a.logger = activity.Logger(opts)
	}

	a.store = store.New(store.WithLogger(a.logger), store.WithClock(a.now))
	a.repo = storage.NewRepository(cfg.DataFile, storage.WithLogger(a.logger))
	return a
}

// load reads the task file into the store and prints load warnings.
func (a *app) load() error {
	warnings, err := a.repo.Load(a.store)
	if err != nil {
		return fmt.Errorf("loading task file: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(a.errOut, "%s %s\n", a.colors.warn.Sprint("Warning:"), w)
	}
	return nil
}

// save writes the store. The reminder watcher saves from its own goroutine.
func (a *app) save() error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if err := a.repo.Save(a.store); err != nil {
		return fmt.Errorf("saving task file: %w", err)
	}
	return nil
}

func (a *app) saveIfModified() error {
	if !a.store.Modified() {
		return nil
	}
	return a.save()
}

func (a *app) close() {
	if err := a.activity.Close(); err != nil {
		fmt.Fprintf(a.errOut, "Warning: closing activity log: %v\n", err)
	}
}

// newFlagSet returns a flag set for a subcommand writing usage to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasker "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parseArgs parses fs over args, allowing flags after positional
// arguments, and returns the positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing task id")
	}
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: tasker %s", usage)
	}
	return nil
}
