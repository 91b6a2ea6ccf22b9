// Package cli wires the tribunal commands.
package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quorumlab/tribunal/internal/config"
	"github.com/quorumlab/tribunal/internal/judges"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config

	// Version is set by the release build.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "tribunal",
	Short: "Judge and rank code submissions with a panel of LLM evaluators",
	Long: `Tribunal ingests source-code projects (directories or ZIP archives),
budgets their content into model prompts, scores each project with a panel
of independent judges, and produces a holistically ranked result set.

Quick start:
  tribunal judge ./entry-a ./entry-b submissions.zip
  tribunal panel list
  tribunal pack ./entry-a -o entry-a.zip`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/tribunal/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newJudgeCmd(),
		newPanelCmd(),
		newPackCmd(),
		newWatchCmd(),
	)
}

// judgesPath returns where custom judge definitions live.
func judgesPath() string {
	if cfg != nil && cfg.Judging.JudgesFile != "" {
		return cfg.Judging.JudgesFile
	}
	return filepath.Join(filepath.Dir(config.DefaultPath()), "judges.yaml")
}

// loadPanel builds the judge panel: built-ins plus any persisted custom
// judges. A broken judges file degrades to built-ins only.
func loadPanel() *judges.Panel {
	panel := judges.NewPanel()
	custom, err := judges.LoadFile(judgesPath())
	if err != nil {
		slog.Warn("ignoring custom judges file", "err", err)
		return panel
	}
	for _, def := range custom {
		if err := panel.AddDefinition(def); err != nil {
			slog.Warn("skipping custom judge", "judge", def.ID, "err", err)
		}
	}
	return panel
}
