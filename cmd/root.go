// Package cmd implements the CLI command structure for tasker.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/nibzard/tasker/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// command runs one subcommand. Commands with loadStore set get a loaded
// store and are saved afterwards when they leave it modified.
type command struct {
	run       func(a *app, args []string) error
	loadStore bool
	summary   string
}

var commands map[string]command

var commandOrder = []string{
	"add", "edit", "done", "undo", "rm", "ls", "show", "search", "stats",
	"sub", "template", "remind", "group", "export",
	"backup", "backups", "restore", "watch", "tui",
	"doctor", "settings", "log", "version", "help",
}

func init() {
	commands = map[string]command{
		"add":      {run: addCommand, loadStore: true, summary: "Add a task"},
		"edit":     {run: editCommand, loadStore: true, summary: "Edit a task or subtask"},
		"done":     {run: doneCommand, loadStore: true, summary: "Complete tasks (spawns the next occurrence of recurring tasks)"},
		"undo":     {run: undoCommand, loadStore: true, summary: "Mark tasks pending again"},
		"rm":       {run: rmCommand, loadStore: true, summary: "Delete a task or subtask"},
		"ls":       {run: lsCommand, loadStore: true, summary: "List tasks (default command)"},
		"show":     {run: showCommand, loadStore: true, summary: "Show task details"},
		"search":   {run: searchCommand, loadStore: true, summary: "Search tasks"},
		"stats":    {run: statsCommand, loadStore: true, summary: "Show statistics"},
		"sub":      {run: subCommand, loadStore: true, summary: "Manage subtasks (add|done|undo|edit|rm)"},
		"template": {run: templateCommand, loadStore: true, summary: "Manage templates (add|ls|use|rm|export|import)"},
		"remind":   {run: remindCommand, loadStore: true, summary: "Manage reminders (add|ls|rm|check)"},
		"group":    {run: groupCommand, loadStore: true, summary: "Manage project groups (ls|add|assign|unassign|rename|rm)"},
		"export":   {run: exportCommand, loadStore: true, summary: "Export tasks (md|csv|ics|html)"},
		"backup":   {run: backupCommand, summary: "Back up the task file"},
		"backups":  {run: backupsCommand, summary: "List backups"},
		"restore":  {run: restoreCommand, summary: "Restore the task file from a backup"},
		"watch":    {run: watchCommand, loadStore: true, summary: "Deliver reminders in the foreground"},
		"tui":      {run: tuiCommand, loadStore: true, summary: "Launch terminal UI"},
		"doctor":   {run: doctorCommand, summary: "Check config, task file and directories"},
		"settings": {run: settingsCommand, summary: "Show effective settings, or 'settings init' to write a config file"},
		"log":      {run: logCommand, summary: "Tail the activity log"},
		"version":  {run: versionCommand, summary: "Show version information"},
	}
}

// Run executes the tasker CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := newApp(ctx, cws, stdout, stderr)
	defer a.close()

	if *showVersion {
		return versionCommand(a, nil)
	}

	// No subcommand lists tasks
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "help", "--help", "-h":
		printUsage(fs, stdout)
		return nil
	case "--version", "-v":
		return versionCommand(a, nil)
	}

	c, ok := commands[subcommand]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
	a.logger.Debug("command", "name", subcommand, "args", len(remainingArgs))

	if !c.loadStore {
		return c.run(a, remainingArgs)
	}
	if err := a.load(); err != nil {
		return err
	}
	runErr := c.run(a, remainingArgs)
	if err := a.saveIfModified(); err != nil {
		if runErr != nil {
			return fmt.Errorf("%w (and %v)", runErr, err)
		}
		return err
	}
	return runErr
}

func versionCommand(a *app, _ []string) error {
	fmt.Fprintf(a.out, "tasker version %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasker - personal task tracker with recurring tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasker [global options] [command] [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		summary := "Show this help message"
		if c, ok := commands[name]; ok {
			summary = c.summary
		}
		fmt.Fprintf(w, "  %-10s %s\n", name, summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recurrence Options (add, edit, template add):")
	fmt.Fprintln(w, "  -repeat string")
	fmt.Fprintln(w, "        none|daily|weekly|biweekly|monthly|quarterly|yearly|custom")
	fmt.Fprintln(w, "  -interval int")
	fmt.Fprintln(w, "        Repeat every N units (daily, weekly, monthly, yearly, custom day)")
	fmt.Fprintln(w, "  -days string")
	fmt.Fprintln(w, "        Custom: weekdays, e.g. mon,wed,fri")
	fmt.Fprintln(w, "  -day int")
	fmt.Fprintln(w, "        Custom: day of month (short months use their last day)")
	fmt.Fprintln(w, "  -until string, -count int")
	fmt.Fprintln(w, "        Recorded end date and occurrence cap")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tasker <command> -h' for command options.")
}
