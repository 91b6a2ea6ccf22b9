// Package ingest turns raw uploads (file lists, archives, or local
// directories) into normalized projects under the configured size ceilings.
package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/quorumlab/tribunal/internal/archive"
	"github.com/quorumlab/tribunal/internal/config"
	"github.com/quorumlab/tribunal/internal/files"
	"github.com/quorumlab/tribunal/internal/project"
)

// ErrEmptyUpload is returned when the input source yields no files at all.
var ErrEmptyUpload = errors.New("upload contains no files")

// RawFile is one uploaded file before filtering.
type RawFile struct {
	OriginalName string
	MediaType    string
	Bytes        []byte
	// ReadError marks a file the producer could not read; ingestion counts
	// it as unreadable instead of trusting empty bytes.
	ReadError error
}

// ClientHints describes filtering the caller already performed before upload.
// The counts are merged additively into the dropped summary, never re-verified.
type ClientHints struct {
	TotalFiles      int
	ExcludedCount   int
	ExcludedFolders []string
	ExcludedByDir   map[string][]string
	OversizedFiles  []string
}

// UploadResult is the boundary output for one ingestion attempt.
type UploadResult struct {
	Success        bool     `json:"success"`
	ProjectName    string   `json:"project_name"`
	Files          int      `json:"files"`
	SkippedFiles   int      `json:"skipped_files"`
	TotalSize      int64    `json:"total_size"`
	Warnings       []string `json:"warnings,omitempty"`
	DroppedSummary []string `json:"dropped_summary,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Ingestor applies the configured ceilings to raw input.
type Ingestor struct {
	limits config.LimitsConfig
	log    *slog.Logger
}

// New creates an ingestor. A nil logger falls back to slog.Default.
func New(limits config.LimitsConfig, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{limits: limits, log: log}
}

// IngestFiles builds a project from an uploaded file list. Individual bad
// files are skipped and counted; only an empty input is a hard failure.
func (ing *Ingestor) IngestFiles(name string, raw []RawFile, hints *ClientHints) (*project.Project, *UploadResult, error) {
	if len(raw) == 0 {
		return nil, failedResult(name, ErrEmptyUpload), ErrEmptyUpload
	}

	p := &project.Project{Name: name}
	budgetExhausted := false
	for _, rf := range raw {
		if files.ShouldIgnore(rf.OriginalName) {
			p.Dropped = append(p.Dropped, project.DropEntry{Category: project.DropDenylisted, Path: rf.OriginalName})
			continue
		}
		if rf.ReadError != nil {
			ing.log.Warn("skipping unreadable file", "file", rf.OriginalName, "err", rf.ReadError)
			p.Dropped = append(p.Dropped, project.DropEntry{
				Category: project.DropUnreadable,
				Path:     rf.OriginalName,
				Detail:   rf.ReadError.Error(),
			})
			continue
		}
		size := int64(len(rf.Bytes))
		if ing.limits.MaxFileBytes > 0 && size > ing.limits.MaxFileBytes {
			p.Dropped = append(p.Dropped, project.DropEntry{
				Category: project.DropOversized,
				Path:     rf.OriginalName,
				Detail:   fmt.Sprintf("%d bytes, limit %d", size, ing.limits.MaxFileBytes),
			})
			continue
		}
		// Once the running total would blow the budget, everything after is
		// dropped regardless of individual size. Input order decides.
		if budgetExhausted || (ing.limits.MaxProjectBytes > 0 && p.TotalBytes+size > ing.limits.MaxProjectBytes) {
			budgetExhausted = true
			p.Dropped = append(p.Dropped, project.DropEntry{Category: project.DropBudget, Path: rf.OriginalName})
			continue
		}

		pf, err := buildFile(rf)
		if err != nil {
			ing.log.Warn("skipping unreadable file", "file", rf.OriginalName, "err", err)
			p.Dropped = append(p.Dropped, project.DropEntry{
				Category: project.DropUnreadable,
				Path:     rf.OriginalName,
				Detail:   err.Error(),
			})
			continue
		}
		p.Files = append(p.Files, pf)
		p.TotalBytes += pf.ByteSize
	}

	mergeHints(p, hints)
	ing.log.Info("ingested project",
		"project", name, "files", len(p.Files), "dropped", len(p.Dropped), "bytes", p.TotalBytes)
	return p, successResult(p), nil
}

// IngestArchive builds a project from one uploaded archive's raw bytes.
func (ing *Ingestor) IngestArchive(name string, data []byte, hints *ClientHints) (*project.Project, *UploadResult, error) {
	res, err := archive.Extract(data, archive.Limits{
		MaxFileBytes: ing.limits.MaxFileBytes,
		MaxEntries:   ing.limits.MaxArchiveEntries,
	})
	if err != nil {
		return nil, failedResult(name, err), err
	}
	if len(res.Files) == 0 && len(res.Dropped) == 0 {
		return nil, failedResult(name, ErrEmptyUpload), ErrEmptyUpload
	}

	p := &project.Project{Name: name, Dropped: res.Dropped}
	budgetExhausted := false
	for _, pf := range res.Files {
		if budgetExhausted || (ing.limits.MaxProjectBytes > 0 && p.TotalBytes+pf.ByteSize > ing.limits.MaxProjectBytes) {
			budgetExhausted = true
			p.Dropped = append(p.Dropped, project.DropEntry{Category: project.DropBudget, Path: pf.Name})
			continue
		}
		p.Files = append(p.Files, pf)
		p.TotalBytes += pf.ByteSize
	}

	mergeHints(p, hints)
	result := successResult(p)
	if res.Truncated {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("archive extraction stopped at the %d-entry limit", ing.limits.MaxArchiveEntries))
	}
	ing.log.Info("ingested archive",
		"project", name, "files", len(p.Files), "dropped", len(p.Dropped), "bytes", p.TotalBytes)
	return p, result, nil
}

// FromDir walks a local directory into the raw-file-list input shape. The
// file filter prunes ignored subtrees before anything is read.
func FromDir(root string) ([]RawFile, error) {
	var raw []RawFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if files.ShouldIgnore(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		name := filepath.ToSlash(rel)
		if files.ShouldIgnore(name) {
			// Keep the entry so ingestion counts the drop, but skip the read.
			raw = append(raw, RawFile{OriginalName: name})
			return nil
		}
		data, readErr := os.ReadFile(path)
		raw = append(raw, RawFile{OriginalName: name, Bytes: data, ReadError: readErr})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return raw, nil
}

// buildFile classifies and encodes one accepted raw file.
func buildFile(rf RawFile) (project.File, error) {
	class := files.Classify(rf.OriginalName, rf.MediaType)
	content := ""
	if class.IsText {
		if !utf8.Valid(rf.Bytes) {
			return project.File{}, fmt.Errorf("%s: declared text but not valid UTF-8", rf.OriginalName)
		}
		content = string(rf.Bytes)
	} else {
		content = base64.StdEncoding.EncodeToString(rf.Bytes)
	}
	return project.File{
		Name:       filepath.ToSlash(rf.OriginalName),
		Content:    content,
		MediaType:  class.MediaType,
		ByteSize:   int64(len(rf.Bytes)),
		SourcePath: rf.OriginalName,
		IsText:     class.IsText,
	}, nil
}

// mergeHints folds client-side filtering statistics into the drop record.
func mergeHints(p *project.Project, hints *ClientHints) {
	if hints == nil {
		return
	}
	if hints.ExcludedCount > 0 {
		detail := fmt.Sprintf("Client excluded %d of %d file(s) before upload", hints.ExcludedCount, hints.TotalFiles)
		p.Dropped = append(p.Dropped, project.DropEntry{Category: project.DropClientSide, Detail: detail})
	}
	for _, folder := range hints.ExcludedFolders {
		count := len(hints.ExcludedByDir[folder])
		detail := fmt.Sprintf("Client excluded folder %s", folder)
		if count > 0 {
			detail = fmt.Sprintf("Client excluded %d file(s) under %s", count, folder)
		}
		p.Dropped = append(p.Dropped, project.DropEntry{Category: project.DropClientSide, Path: folder, Detail: detail})
	}
	for _, oversized := range hints.OversizedFiles {
		p.Dropped = append(p.Dropped, project.DropEntry{
			Category: project.DropClientSide,
			Path:     oversized,
			Detail:   fmt.Sprintf("Client skipped oversized file %s", oversized),
		})
	}
}

func successResult(p *project.Project) *UploadResult {
	return &UploadResult{
		Success:        true,
		ProjectName:    p.Name,
		Files:          len(p.Files),
		SkippedFiles:   len(p.Dropped),
		TotalSize:      p.TotalBytes,
		DroppedSummary: p.DroppedSummary(),
	}
}

func failedResult(name string, err error) *UploadResult {
	return &UploadResult{ProjectName: name, Error: err.Error()}
}
