// Package archive streams project files in and out of ZIP containers.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/quorumlab/tribunal/internal/files"
	"github.com/quorumlab/tribunal/internal/project"
)

// ErrCorruptArchive is returned when the container itself cannot be opened.
var ErrCorruptArchive = errors.New("archive is corrupt or not a ZIP file")

// Limits bounds what extraction will accept.
type Limits struct {
	// MaxFileBytes skips entries whose declared uncompressed size exceeds it.
	MaxFileBytes int64
	// MaxEntries stops extraction early, without error, once reached.
	MaxEntries int
}

// Result carries the extracted files plus a record of everything skipped.
type Result struct {
	Files   []project.File
	Dropped []project.DropEntry
	// Truncated is set when the entry cap stopped extraction early.
	Truncated bool
}

// Extract walks the archive's entries strictly one at a time, applying the
// file filter and per-entry size cap. One read stream is open at any moment;
// the sequential pass is the memory bound, not a missed optimization.
func Extract(data []byte, limits Limits) (*Result, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	res := &Result{}
	stream := newEntryStream(reader, limits)
	for {
		entry, ok := stream.next(res)
		if !ok {
			break
		}
		res.Files = append(res.Files, entry)
	}
	res.Truncated = stream.truncated
	return res, nil
}

// entryStream is a bounded single-pass producer over archive entries. next
// yields at most one fully-read file per call and never holds more than one
// entry's bytes in memory.
type entryStream struct {
	entries   []*zip.File
	limits    Limits
	pos       int
	emitted   int
	truncated bool
}

func newEntryStream(r *zip.Reader, limits Limits) *entryStream {
	return &entryStream{entries: r.File, limits: limits}
}

func (s *entryStream) next(res *Result) (project.File, bool) {
	for s.pos < len(s.entries) {
		if s.limits.MaxEntries > 0 && s.emitted >= s.limits.MaxEntries {
			s.truncated = true
			return project.File{}, false
		}

		entry := s.entries[s.pos]
		s.pos++

		name := path.Clean(entry.Name)
		if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
			continue
		}
		if files.ShouldIgnore(name) {
			res.Dropped = append(res.Dropped, project.DropEntry{Category: project.DropDenylisted, Path: name})
			continue
		}
		declared := int64(entry.UncompressedSize64)
		if s.limits.MaxFileBytes > 0 && declared > s.limits.MaxFileBytes {
			res.Dropped = append(res.Dropped, project.DropEntry{
				Category: project.DropOversized,
				Path:     name,
				Detail:   fmt.Sprintf("%d bytes, limit %d", declared, s.limits.MaxFileBytes),
			})
			continue
		}

		file, err := readEntry(entry, name)
		if err != nil {
			res.Dropped = append(res.Dropped, project.DropEntry{
				Category: project.DropUnreadable,
				Path:     name,
				Detail:   err.Error(),
			})
			continue
		}
		s.emitted++
		return file, true
	}
	return project.File{}, false
}

// readEntry opens, fully reads and classifies one entry.
func readEntry(entry *zip.File, name string) (project.File, error) {
	rc, err := entry.Open()
	if err != nil {
		return project.File{}, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return project.File{}, fmt.Errorf("read entry: %w", err)
	}

	class := files.Classify(name, "")
	content := string(raw)
	if !class.IsText {
		content = base64.StdEncoding.EncodeToString(raw)
	}

	return project.File{
		Name:       name,
		Content:    content,
		MediaType:  class.MediaType,
		ByteSize:   int64(len(raw)),
		SourcePath: entry.Name,
		IsText:     class.IsText,
	}, nil
}
