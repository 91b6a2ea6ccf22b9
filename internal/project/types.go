// Package project defines the normalized shape of a submission after
// ingestion: an ordered file list plus a structured account of everything
// that was dropped on the way in.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// File is one ingested file. Content holds UTF-8 text when IsText is set,
// otherwise base64 of the raw bytes. ByteSize is always the raw length
// before any re-encoding. Files are immutable once ingestion completes.
type File struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	MediaType  string `json:"media_type"`
	ByteSize   int64  `json:"byte_size"`
	SourcePath string `json:"source_path"`
	IsText     bool   `json:"is_text"`
}

// Project is one user submission after filtering and budgeting. The sum of
// file byte sizes never exceeds the per-project ceiling in force at
// ingestion time.
type Project struct {
	Name       string      `json:"name"`
	Files      []File      `json:"files"`
	Dropped    []DropEntry `json:"dropped,omitempty"`
	TotalBytes int64       `json:"total_bytes"`
}

// DropCategory tags why a file did not make it into the project.
type DropCategory string

const (
	DropDenylisted DropCategory = "denylisted"
	DropOversized  DropCategory = "oversized"
	DropBudget     DropCategory = "size_budget_exhausted"
	DropUnreadable DropCategory = "unreadable"
	DropClientSide DropCategory = "client_side"
)

// DropEntry records one dropped file. The presentation layer renders these;
// the core never builds markup.
type DropEntry struct {
	Category DropCategory `json:"category"`
	Path     string       `json:"path"`
	Detail   string       `json:"detail,omitempty"`
}

// DroppedSummary folds drop entries into human-readable lines, de-duplicated
// by category and grouped by offending directory where that reads better.
func (p *Project) DroppedSummary() []string {
	return SummarizeDrops(p.Dropped)
}

// SummarizeDrops renders drop entries as diagnostic lines for the user.
func SummarizeDrops(drops []DropEntry) []string {
	if len(drops) == 0 {
		return nil
	}

	byCategory := make(map[DropCategory][]DropEntry)
	order := []DropCategory{}
	for _, d := range drops {
		if _, seen := byCategory[d.Category]; !seen {
			order = append(order, d.Category)
		}
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	var lines []string
	for _, cat := range order {
		entries := byCategory[cat]
		switch cat {
		case DropDenylisted:
			lines = append(lines, summarizeByDir("Excluded", entries)...)
		case DropOversized:
			for _, e := range entries {
				line := fmt.Sprintf("Skipped oversized file %s", e.Path)
				if e.Detail != "" {
					line += " (" + e.Detail + ")"
				}
				lines = append(lines, line)
			}
		case DropBudget:
			lines = append(lines, fmt.Sprintf("Skipped %d file(s) due to the project size limit", len(entries)))
		case DropUnreadable:
			for _, e := range entries {
				lines = append(lines, fmt.Sprintf("Could not read %s; skipped", e.Path))
			}
		case DropClientSide:
			for _, e := range entries {
				lines = append(lines, e.Detail)
			}
		}
	}
	return lines
}

// summarizeByDir groups entries under their parent directory so a thousand
// node_modules files collapse into one line.
func summarizeByDir(verb string, entries []DropEntry) []string {
	byDir := make(map[string]int)
	for _, e := range entries {
		dir := filepath.ToSlash(filepath.Dir(e.Path))
		if dir == "." {
			dir = ""
		}
		byDir[dir] += 1
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var lines []string
	for _, dir := range dirs {
		count := byDir[dir]
		if dir == "" {
			lines = append(lines, fmt.Sprintf("%s %d filtered file(s) at the project root", verb, count))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %d filtered file(s) under %s/", verb, count, strings.TrimSuffix(dir, "/")))
	}
	return lines
}
