package files

import (
	"path/filepath"
	"strings"
)

// Classification is the result of deciding how a file's content should be
// carried through the pipeline.
type Classification struct {
	IsText    bool
	MediaType string
}

// binaryMediaType is the fallback for anything we cannot identify as text.
const binaryMediaType = "application/octet-stream"

// textualExts maps known text extensions to the media type we report for them.
var textualExts = map[string]string{
	".go":     "text/x-go",
	".py":     "text/x-python",
	".js":     "text/javascript",
	".jsx":    "text/javascript",
	".mjs":    "text/javascript",
	".ts":     "text/typescript",
	".tsx":    "text/typescript",
	".rs":     "text/x-rust",
	".java":   "text/x-java",
	".c":      "text/x-c",
	".h":      "text/x-c",
	".cpp":    "text/x-c++",
	".cc":     "text/x-c++",
	".hpp":    "text/x-c++",
	".cs":     "text/x-csharp",
	".rb":     "text/x-ruby",
	".php":    "text/x-php",
	".swift":  "text/x-swift",
	".kt":     "text/x-kotlin",
	".lua":    "text/x-lua",
	".sh":     "text/x-shellscript",
	".bash":   "text/x-shellscript",
	".zsh":    "text/x-shellscript",
	".fish":   "text/x-shellscript",
	".sql":    "text/x-sql",
	".html":   "text/html",
	".htm":    "text/html",
	".css":    "text/css",
	".scss":   "text/css",
	".less":   "text/css",
	".md":     "text/markdown",
	".txt":    "text/plain",
	".rst":    "text/plain",
	".csv":    "text/csv",
	".json":   "application/json",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".toml":   "application/toml",
	".xml":    "application/xml",
	".svg":    "image/svg+xml",
	".ini":    "text/plain",
	".cfg":    "text/plain",
	".conf":   "text/plain",
	".env":    "text/plain",
	".vue":    "text/plain",
	".svelte": "text/plain",
	".graphql": "text/plain",
	".proto":  "text/plain",
}

// Classify decides whether a file is text or binary and which media type to
// label it with. The declared media type, when present and recognizably
// textual, wins over the extension table.
func Classify(filename, declaredMediaType string) Classification {
	if declaredMediaType != "" && textualMediaType(declaredMediaType) {
		return Classification{IsText: true, MediaType: declaredMediaType}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if mediaType, ok := textualExts[ext]; ok {
		return Classification{IsText: true, MediaType: mediaType}
	}

	// Makefiles and Dockerfiles rarely carry an extension.
	base := strings.ToLower(filepath.Base(filename))
	if strings.Contains(base, "makefile") || strings.Contains(base, "dockerfile") {
		return Classification{IsText: true, MediaType: "text/plain"}
	}
	if dotfileAllowed(base) {
		return Classification{IsText: true, MediaType: "text/plain"}
	}

	if declaredMediaType != "" {
		return Classification{IsText: false, MediaType: declaredMediaType}
	}
	return Classification{IsText: false, MediaType: binaryMediaType}
}

// textualMediaType reports whether a declared media type is one we trust to
// carry UTF-8 text.
func textualMediaType(mediaType string) bool {
	lower := strings.ToLower(mediaType)
	if strings.HasPrefix(lower, "text/") {
		return true
	}
	for _, marker := range []string{"json", "javascript", "xml"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
