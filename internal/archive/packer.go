package archive

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/quorumlab/tribunal/internal/project"
)

// Pack re-serializes a project's files into a downloadable ZIP, prefixed
// with a generated manifest listing every included file. This is a
// convenience export; it plays no part in scoring.
func Pack(p *project.Project) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	manifest, err := w.Create("MANIFEST.md")
	if err != nil {
		return nil, fmt.Errorf("create manifest: %w", err)
	}
	if _, err := manifest.Write([]byte(buildManifest(p))); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	for _, f := range p.Files {
		entry, err := w.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", f.Name, err)
		}
		raw := []byte(f.Content)
		if !f.IsText {
			decoded, err := base64.StdEncoding.DecodeString(f.Content)
			if err == nil {
				raw = decoded
			}
		}
		if _, err := entry.Write(raw); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// buildManifest renders the included-file listing written as MANIFEST.md.
func buildManifest(p *project.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	fmt.Fprintf(&sb, "Exported by tribunal. %d file(s), %d bytes total.\n\n", len(p.Files), p.TotalBytes)
	sb.WriteString("| File | Type | Size (bytes) |\n")
	sb.WriteString("|------|------|--------------|\n")
	for _, f := range p.Files {
		fmt.Fprintf(&sb, "| %s | %s | %d |\n", f.Name, f.MediaType, f.ByteSize)
	}
	if dropped := p.DroppedSummary(); len(dropped) > 0 {
		sb.WriteString("\n## Not included\n\n")
		for _, line := range dropped {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}
	return sb.String()
}
