package files

import (
	"path/filepath"
	"strings"
)

// ignoredDirs are path segments that exclude a file no matter where they
// appear. Dependency trees, build output, VCS metadata and tool caches carry
// no signal for judging and routinely dwarf the actual submission.
var ignoredDirs = []string{
	"node_modules",
	".git",
	".svn",
	".hg",
	"vendor",
	"bower_components",
	"build",
	"dist",
	"out",
	".next",
	"target",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".vscode",
	".idea",
	"coverage",
	".nyc_output",
	".cache",
	"tmp",
	"temp",
}

// allowedDotfiles are hidden files that are still worth showing to a judge.
// Matching is by exact base name; see the .env family exception below.
var allowedDotfiles = []string{
	".gitignore",
	".gitattributes",
	".dockerignore",
	".editorconfig",
	".env.example",
	".eslintrc",
	".prettierrc",
	".babelrc",
	".npmrc",
}

// ignoredExts are binary, archive and media extensions that never belong in
// a prompt payload.
var ignoredExts = []string{
	".exe", ".dll", ".so", ".dylib", ".o", ".obj", ".a", ".lib",
	".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".rar", ".7z",
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".ico", ".webp", ".tiff",
	".mp3", ".mp4", ".wav", ".avi", ".mov", ".mkv", ".flac", ".ogg",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".ttf", ".otf", ".woff", ".woff2", ".eot",
	".bin", ".dat", ".db", ".sqlite", ".sqlite3",
	".pyc", ".pyo", ".class", ".jar", ".war",
	".swp", ".swo", ".bak", ".lock", ".ds_store",
}

// ShouldIgnore reports whether a path should be excluded from ingestion.
// Rules are applied in order, first match wins:
//  1. any path segment on the directory denylist
//  2. any hidden segment not on the dotfile allow-list
//  3. a denylisted extension
func ShouldIgnore(path string) bool {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")

	for _, segment := range segments {
		lower := strings.ToLower(segment)
		for _, dir := range ignoredDirs {
			if lower == dir {
				return true
			}
		}
	}

	for _, segment := range segments {
		if strings.HasPrefix(segment, ".") && !dotfileAllowed(segment) {
			return true
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, ignored := range ignoredExts {
		if ext == ignored {
			return true
		}
	}

	return false
}

// dotfileAllowed checks a hidden name against the allow-list. Names are
// matched exactly, except the .env family (.env, .env.example, .env.local)
// which is allowed by prefix so sample env files survive filtering.
func dotfileAllowed(name string) bool {
	lower := strings.ToLower(name)
	for _, allowed := range allowedDotfiles {
		if lower == allowed {
			return true
		}
	}
	return strings.HasPrefix(lower, ".env")
}

// FilterPaths returns the subset of paths that survive ShouldIgnore.
// Useful for batch operations over a pre-listed tree.
func FilterPaths(paths []string) []string {
	var result []string
	for _, path := range paths {
		if !ShouldIgnore(path) {
			result = append(result, path)
		}
	}
	return result
}
