package prompt

import (
	"strings"
	"testing"

	"github.com/quorumlab/tribunal/internal/project"
)

func textFile(name, content string) project.File {
	return project.File{
		Name:      name,
		Content:   content,
		MediaType: "text/plain",
		ByteSize:  int64(len(content)),
		IsText:    true,
	}
}

func TestBuildPayloadIsDeterministic(t *testing.T) {
	p := &project.Project{
		Name: "demo",
		Files: []project.File{
			textFile("util.go", strings.Repeat("x", 2000)),
			textFile("README.md", "hello"),
			textFile("main.py", "print()"),
		},
	}
	opts := Options{CeilingBytes: 4096, MaxFileChars: 1000}

	first := BuildPayload(p, opts)
	second := BuildPayload(p, opts)
	if first != second {
		t.Fatal("BuildPayload is not byte-identical across calls")
	}
}

func TestBuildPayloadPriorityOrder(t *testing.T) {
	p := &project.Project{
		Name: "demo",
		Files: []project.File{
			textFile("notes.txt", "n"),
			textFile("script.py", "p"),
			textFile("CHANGES.md", "m"),
			textFile("package.json", "{}"),
			textFile("index.js", "i"),
			textFile("README.md", "r"),
		},
	}

	payload := BuildPayload(p, Options{})
	order := []string{"README.md", "index.js", "package.json", "CHANGES.md", "script.py", "notes.txt"}
	last := -1
	for _, name := range order {
		pos := strings.Index(payload, "FILE: "+name)
		if pos < 0 {
			t.Fatalf("payload missing %s", name)
		}
		if pos < last {
			t.Errorf("%s appears before its priority position", name)
		}
		last = pos
	}
}

func TestBuildPayloadTruncatesLongFiles(t *testing.T) {
	p := &project.Project{
		Name:  "demo",
		Files: []project.File{textFile("big.txt", strings.Repeat("z", 5000))},
	}

	payload := BuildPayload(p, Options{MaxFileChars: 100})
	if !strings.Contains(payload, truncationMarker) {
		t.Error("truncated file missing the truncation marker")
	}
	if strings.Contains(payload, strings.Repeat("z", 101)) {
		t.Error("content exceeds the per-file character ceiling")
	}
}

func TestBuildPayloadBinaryPlaceholder(t *testing.T) {
	p := &project.Project{
		Name: "demo",
		Files: []project.File{{
			Name: "blob.bin", Content: "AAECAw==", MediaType: "application/octet-stream",
			ByteSize: 4, IsText: false,
		}},
	}

	payload := BuildPayload(p, Options{})
	if !strings.Contains(payload, "[binary file omitted]") {
		t.Error("binary file not rendered as a placeholder")
	}
	if strings.Contains(payload, "AAECAw==") {
		t.Error("binary payload leaked raw base64 content")
	}
}

func TestBuildPayloadCeilingStopsOnAccumulatedSize(t *testing.T) {
	// One large file then many small ones: the byte check must halt
	// inclusion, and the tail must be reported, not silently dropped.
	files := []project.File{textFile("README.md", strings.Repeat("r", 3000))}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		files = append(files, textFile(name, "tiny"))
	}
	p := &project.Project{Name: "demo", Files: files}

	ceiling := 2000
	payload := BuildPayload(p, Options{CeilingBytes: ceiling})

	if !strings.Contains(payload, "omitted to fit the prompt budget") {
		t.Error("payload missing the excluded-files summary line")
	}
	const markerOverhead = 128
	if len(payload) > ceiling+markerOverhead {
		t.Errorf("payload length %d exceeds ceiling %d plus marker overhead", len(payload), ceiling)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 100, "short"},
		{"exactly", 7, "exactly"},
		{"longer string here", 10, "longer ..."},
		{"abc", 2, "ab"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
