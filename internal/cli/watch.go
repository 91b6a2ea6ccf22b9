package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quorumlab/tribunal/internal/ingest"
	"github.com/quorumlab/tribunal/internal/project"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Judge ZIP archives as they are dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s for ZIP archives (ctrl-c to stop)\n", dir)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("watch error", "err", err)
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
						continue
					}
					if strings.ToLower(filepath.Ext(event.Name)) != ".zip" {
						continue
					}
					// Give the writer a moment to finish the file.
					time.Sleep(500 * time.Millisecond)
					judgeDropped(cmd, event.Name)
				}
			}
		},
	}
}

// judgeDropped runs one dropped archive through the full pipeline. Failures
// are reported and the watch continues.
func judgeDropped(cmd *cobra.Command, path string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("cannot read dropped archive", "path", path, "err", err)
		return
	}

	ing := ingest.New(cfg.Limits, slog.Default())
	p, result, err := ing.IngestArchive(name, data, nil)
	if err != nil {
		slog.Warn("cannot ingest dropped archive", "path", path, "err", err)
		return
	}
	printUploadResult(result)

	evaluations := runJudging(cmd.Context(), []*project.Project{p}, true)
	printResults(cmd.OutOrStdout(), evaluations, buildReport(evaluations), true)
}
