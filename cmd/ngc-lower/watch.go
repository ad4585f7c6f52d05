package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <fixture.yaml>",
		Short: "Recompile a template fixture every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			path := args[0]
			recompile := func() {
				cfg, err := opts.compilerConfig(cmd)
				if err == nil {
					var code string
					if code, err = compileFixture(path, cfg, false); err == nil {
						fmt.Fprint(cmd.OutOrStdout(), code)
						return
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "compile error: %v\n", err)
			}

			recompile()
			return watchFile(ctx, path, cmd.ErrOrStderr(), recompile)
		},
	}
}

// watchFile calls onChange after each write to path until ctx is done.
// The parent directory is watched so that editors replacing the file are
// noticed too.
func watchFile(ctx context.Context, path string, stderr io.Writer, onChange func()) error {
	// Debounce duration - editors write a file in several steps
	const debounce = 100 * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve fixture path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	fmt.Fprintf(stderr, "watching %s\n", path)

	var lastChange time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastChange) < debounce {
				continue
			}
			lastChange = time.Now()
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(stderr, "watcher error: %v\n", err)
		}
	}
}
