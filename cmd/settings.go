package cmd

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasker/internal/config"
)

func settingsCommand(a *app, args []string) error {
	if len(args) > 0 && args[0] == "init" {
		return settingsInitCommand(a, args[1:])
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown settings command: %s", args[0])
	}

	values, err := settingValues(a.cfg)
	if err != nil {
		return err
	}
	if file := a.sources.GetConfigFile(); file != "" {
		fmt.Fprintf(a.out, "Config file: %s\n", file)
	} else {
		fmt.Fprintf(a.out, "Config file: none (run 'tasker settings init' to create %s)\n", config.UserConfigPath())
	}
	fmt.Fprintln(a.out)
	for _, field := range a.sources.SortedFields() {
		fmt.Fprintf(a.out, "  %-18s = %-28v %s\n", field, values[field], a.colors.dim.Sprintf("(%s)", a.sources.Sources[field]))
	}
	return nil
}

// settingValues returns the config keyed by TOML field name.
func settingValues(cfg *config.Config) (map[string]any, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	values := make(map[string]any)
	if _, err := toml.Decode(buf.String(), &values); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return values, nil
}

func settingsInitCommand(a *app, args []string) error {
	fs := a.newFlagSet("settings init")
	force := fs.Bool("force", false, "Overwrite an existing config file")
	project := fs.Bool("project", false, "Write tasker.toml in the current directory")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	path := config.UserConfigPath()
	if *project {
		path = "tasker.toml"
	}
	if err := config.WriteExample(path, *force); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}
