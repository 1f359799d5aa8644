package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/specialistvlad/palletforge/internal/app"
	"github.com/specialistvlad/palletforge/internal/cli"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// main is the entrypoint for the palletforge application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and executes one command, writing results to outW.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	cmd, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors; turn them into a clean error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	a := app.NewApp(os.Stderr, cmd.Config)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err = errors.Join(err, a.Close(closeCtx))
	}()

	switch cmd.Name {
	case cli.CommandList:
		return a.List(outW)
	case cli.CommandGenerate:
		task, err := a.Generate(ctx, cmd.Generate)
		if err != nil {
			return err
		}
		if err := printTask(outW, task); err != nil {
			return err
		}
		if task.Status == taskstore.StatusFailed {
			return &cli.ExitError{Code: 1, Message: "generation failed: " + task.Error}
		}
		return nil
	case cli.CommandSplice:
		names, err := a.Splice(ctx, cmd.Splice)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(outW, "Nothing spliced into %s: every pallet is already present.\n", cmd.Splice.ProjectDir)
			return nil
		}
		fmt.Fprintf(outW, "Spliced into %s: %s\n", cmd.Splice.ProjectDir, strings.Join(names, ", "))
		return nil
	default:
		return &cli.ExitError{Code: 2, Message: "unknown command " + cmd.Name}
	}
}

func printTask(w io.Writer, task taskstore.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(task)
}
