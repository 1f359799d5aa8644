package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specialistvlad/palletforge/internal/app"
	"github.com/spf13/pflag"
)

// Command names.
const (
	CommandList     = "list"
	CommandGenerate = "generate"
	CommandSplice   = "splice"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Command is a parsed invocation.
type Command struct {
	Name     string
	Config   *app.Config
	Generate app.GenerateRequest
	Splice   app.SpliceRequest
}

const usageHeader = `
palletforge - assemble blockchain runtimes from a catalogue of pallets.

Usage:
  palletforge <command> [options]

Commands:
  list        Print the pallet catalogue.
  generate    Generate a runtime project archive.
  splice      Add pallets to an existing project in place.

Options:
`

// Parse processes command-line arguments. It returns the command, a boolean
// indicating the program should exit cleanly (help was printed), or an
// ExitError.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		defaults := app.DefaultConfig()
		flagSet := pflag.NewFlagSet("palletforge", pflag.ContinueOnError)
		flagSet.SetOutput(output)
		fmt.Fprint(output, usageHeader)
		globalFlags(flagSet, &defaults).PrintDefaults()
		return nil, true, nil
	}

	cmd := &Command{Name: args[0]}
	switch cmd.Name {
	case CommandList, CommandGenerate, CommandSplice:
	default:
		return nil, false, usageError("unknown command %q: must be one of list, generate, splice", cmd.Name)
	}

	flagSet := pflag.NewFlagSet("palletforge "+cmd.Name, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  palletforge %s [options]\n\nOptions:\n", cmd.Name)
		flagSet.PrintDefaults()
	}

	flagValues := app.DefaultConfig()
	configPath := flagSet.String("config", "", "Path to a YAML configuration file.")
	globalFlags(flagSet, &flagValues)

	var pallets []string
	var overridesPath string
	switch cmd.Name {
	case CommandGenerate:
		flagSet.StringVar(&cmd.Generate.Name, "name", "", "Name of the generated project.")
		flagSet.StringSliceVar(&pallets, "pallets", nil, "Comma-separated pallet names to include.")
		flagSet.StringVar(&overridesPath, "overrides", "", "Path to a JSON file of parameter overrides.")
		flagSet.BoolVar(&cmd.Generate.Wait, "wait", false, "Wait for the generation to finish.")
		flagSet.DurationVar(&cmd.Generate.Timeout, "timeout", 5*time.Minute, "Maximum time to wait with --wait.")
	case CommandSplice:
		flagSet.StringVar(&cmd.Splice.ProjectDir, "project", "", "Root of the project to edit.")
		flagSet.StringSliceVar(&pallets, "pallets", nil, "Comma-separated pallet names to add.")
		flagSet.StringVar(&overridesPath, "overrides", "", "Path to a JSON file of parameter overrides.")
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	if flagSet.NArg() > 0 {
		return nil, false, usageError("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg := app.DefaultConfig()
	if *configPath != "" {
		if err := app.LoadConfigFile(*configPath, &cfg); err != nil {
			return nil, false, usageError("%s", err.Error())
		}
	}
	flagSet.Visit(func(f *pflag.Flag) {
		if apply, ok := flagAppliers[f.Name]; ok {
			apply(&cfg, &flagValues)
		}
	})
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}
	cmd.Config = validated

	switch cmd.Name {
	case CommandGenerate:
		if cmd.Generate.Name == "" {
			return nil, false, usageError("--name is required")
		}
		if len(pallets) == 0 {
			return nil, false, usageError("--pallets is required")
		}
		cmd.Generate.Pallets = pallets
		cmd.Generate.Target = cfg.Target
		cmd.Generate.OverridesPath = overridesPath
	case CommandSplice:
		if cmd.Splice.ProjectDir == "" {
			return nil, false, usageError("--project is required")
		}
		if len(pallets) == 0 {
			return nil, false, usageError("--pallets is required")
		}
		cmd.Splice.Pallets = pallets
		cmd.Splice.Target = cfg.Target
		cmd.Splice.OverridesPath = overridesPath
	}
	return cmd, false, nil
}
