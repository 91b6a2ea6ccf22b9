package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quorumlab/tribunal/internal/eval"
	"github.com/quorumlab/tribunal/internal/ingest"
	"github.com/quorumlab/tribunal/internal/llm"
	"github.com/quorumlab/tribunal/internal/project"
	"github.com/quorumlab/tribunal/internal/ranking"
	"github.com/quorumlab/tribunal/internal/tui"
)

func newJudgeCmd() *cobra.Command {
	var (
		plain   bool
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "judge <dir|archive.zip>...",
		Short: "Evaluate and rank one or more project submissions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := ingestPaths(args)
			if err != nil {
				return err
			}

			evaluations := runJudging(cmd.Context(), projects, plain)

			report := buildReport(evaluations)
			if outFile != "" {
				if err := os.WriteFile(outFile, []byte(report), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}
			printResults(cmd.OutOrStdout(), evaluations, report, plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plain output without spinner or markdown rendering")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the markdown report to a file")
	return cmd
}

// ingestPaths turns each argument into a project. Directories walk through
// the raw-file path; .zip files go through archive extraction. Input
// validation failures are reported as hard errors here at the boundary;
// everything after ingestion degrades instead of failing.
func ingestPaths(paths []string) ([]*project.Project, error) {
	ing := ingest.New(cfg.Limits, slog.Default())

	var projects []*project.Project
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}

		var (
			p      *project.Project
			result *ingest.UploadResult
		)
		if info.IsDir() {
			raw, err := ingest.FromDir(path)
			if err != nil {
				return nil, err
			}
			p, result, err = ing.IngestFiles(name, raw, nil)
			if err != nil {
				return nil, fmt.Errorf("ingest %s: %w", path, err)
			}
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", path, err)
			}
			p, result, err = ing.IngestArchive(name, data, nil)
			if err != nil {
				return nil, fmt.Errorf("ingest %s: %w", path, err)
			}
		}

		printUploadResult(result)
		projects = append(projects, p)
	}
	return projects, nil
}

// runJudging evaluates all projects and ranks them, driving the progress
// view unless plain output was requested.
func runJudging(ctx context.Context, projects []*project.Project, plain bool) []eval.ProjectEvaluation {
	panel := loadPanel()
	client := llm.NewHTTPClient(
		cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		time.Duration(cfg.LLM.RequestTimeoutMs)*time.Millisecond,
	)
	opts := llm.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Seed:        cfg.LLM.Seed,
	}

	payloadCeiling := cfg.Limits.MaxPromptBytes - cfg.Judging.PromptHeadroomBytes
	if payloadCeiling <= 0 {
		payloadCeiling = cfg.Limits.MaxPromptBytes
	}

	orch := eval.NewOrchestrator(client, payloadCeiling, cfg.Limits.MaxFileChars, opts, slog.Default())
	agg := ranking.NewAggregator(client, payloadCeiling, opts, slog.Default())

	var program *tea.Program
	if !plain {
		program = tui.NewProgressProgram(len(projects), panel.Len())
		orch.OnProgress = func(p eval.Progress) {
			program.Send(tui.ProgressMsg{Project: p.Project, ProjectsDone: p.ProjectsDone, ProjectsAll: p.ProjectsAll})
		}
	}

	type judged struct{ evaluations []eval.ProjectEvaluation }
	resultCh := make(chan judged, 1)
	go func() {
		evaluations := orch.EvaluateAll(ctx, projects, panel)
		ranked := agg.Rank(ctx, evaluations)
		if program != nil {
			program.Send(tui.DoneMsg{})
		}
		resultCh <- judged{evaluations: ranked}
	}()

	if program != nil {
		// Blocks until DoneMsg quits the program; judging continues underneath.
		_, _ = program.Run()
	}
	return (<-resultCh).evaluations
}
