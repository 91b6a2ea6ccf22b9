package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quorumlab/tribunal/internal/archive"
	"github.com/quorumlab/tribunal/internal/ingest"
	"github.com/quorumlab/tribunal/internal/project"
)

func newPackCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "pack <dir|archive.zip>",
		Short: "Re-export an ingested project as a ZIP with a manifest",
		Long: `Pack runs a path through the same filtering and budgeting as judging,
then writes the surviving files back out as a ZIP archive together with a
generated MANIFEST.md listing every included file, its type and byte size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			ing := ingest.New(cfg.Limits, slog.Default())

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}

			var (
				p      *project.Project
				result *ingest.UploadResult
			)
			if info.IsDir() {
				raw, err := ingest.FromDir(path)
				if err != nil {
					return err
				}
				p, result, err = ing.IngestFiles(name, raw, nil)
				if err != nil {
					return err
				}
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				p, result, err = ing.IngestArchive(name, data, nil)
				if err != nil {
					return err
				}
			}
			printUploadResult(result)

			data, err := archive.Pack(p)
			if err != nil {
				return err
			}

			if outFile == "" {
				outFile = name + "-packed.zip"
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %d files)\n", outFile, len(data), len(p.Files))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default <name>-packed.zip)")
	return cmd
}
