// Package prompt serializes projects into budgeted model payloads.
package prompt

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quorumlab/tribunal/internal/project"
)

// Options bounds one payload build.
type Options struct {
	// CeilingBytes caps the accumulated payload size.
	CeilingBytes int
	// MaxFileChars truncates a single file's rendered content.
	MaxFileChars int
}

const truncationMarker = "\n[... content truncated ...]\n"

// BuildPayload renders a project into a single evaluation payload. The
// function is pure and deterministic: identical inputs yield byte-identical
// output, which a fixed model seed depends on for reproducible runs.
//
// Files are emitted in priority order; before each block the accumulated
// output size is checked against the ceiling, so one large file can end
// inclusion earlier than a count-based cutoff would.
func BuildPayload(p *project.Project, opts Options) string {
	ordered := make([]project.File, len(p.Files))
	copy(ordered, p.Files)
	sort.SliceStable(ordered, func(i, j int) bool {
		return filePriority(ordered[i].Name) < filePriority(ordered[j].Name)
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "PROJECT: %s (%d files)\n\n", p.Name, len(p.Files))

	excluded := 0
	for i, f := range ordered {
		block := renderFile(f, opts.MaxFileChars)
		if opts.CeilingBytes > 0 && sb.Len()+len(block) > opts.CeilingBytes {
			excluded = len(ordered) - i
			break
		}
		sb.WriteString(block)
	}

	if excluded > 0 {
		fmt.Fprintf(&sb, "[%d more file(s) omitted to fit the prompt budget]\n", excluded)
	}
	return sb.String()
}

// filePriority orders files by how much a judge learns from them. Lower is
// earlier; ties keep original file order.
func filePriority(name string) int {
	base := strings.ToLower(filepath.Base(name))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := strings.ToLower(filepath.Ext(base))

	switch {
	case strings.HasPrefix(base, "readme"):
		return 1
	case stem == "main" || stem == "index" || stem == "app":
		return 2
	case isManifest(base):
		return 3
	case ext == ".md":
		return 4
	case ext == ".py" || ext == ".js" || ext == ".ts":
		return 5
	default:
		return 10
	}
}

// isManifest matches config and package-manifest files.
func isManifest(base string) bool {
	switch base {
	case "package.json", "go.mod", "cargo.toml", "pyproject.toml",
		"requirements.txt", "gemfile", "pom.xml", "build.gradle",
		"composer.json", "makefile", "dockerfile", "docker-compose.yml",
		"tsconfig.json", "setup.py":
		return true
	}
	return false
}

// renderFile emits one file block: a header line, then either (possibly
// truncated) text content or a placeholder for binary files.
func renderFile(f project.File, maxChars int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== FILE: %s (%s, %d bytes) ===\n", f.Name, f.MediaType, f.ByteSize)

	if !f.IsText {
		sb.WriteString("[binary file omitted]\n\n")
		return sb.String()
	}

	content := f.Content
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars] + truncationMarker
	}
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// Truncate caps a string at max bytes with an ellipsis. Shared by the
// ranking payload, which applies the same discipline to serialized results
// instead of file contents.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
