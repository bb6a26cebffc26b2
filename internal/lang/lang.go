// Package lang classifies source files by language and role.
//
// It is a pure mapping-table layer (no interfaces, no open inheritance) per the
// design note that language/file-kind dispatch is single-dispatch over closed
// enums, not polymorphism.
package lang

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported source language.
type Kind string

const (
	TypeScript Kind = "typescript"
	TSX        Kind = "tsx"
	JavaScript Kind = "javascript"
	Rust       Kind = "rust"
)

// ForExtension maps a file extension (with or without leading dot) to a
// language kind. ok is false for unrecognized extensions.
func ForExtension(ext string) (Kind, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "ts":
		return TypeScript, true
	case "tsx":
		return TSX, true
	case "js", "mjs", "cjs":
		return JavaScript, true
	case "jsx":
		return TSX, true
	case "rs":
		return Rust, true
	default:
		return "", false
	}
}

// ForPath maps a file path to a language kind via its extension.
func ForPath(path string) (Kind, bool) {
	return ForExtension(filepath.Ext(path))
}

// FileKind classifies a file's role in the project, independent of whether it
// is a supported source language.
type FileKind string

const (
	Source FileKind = "Source"
	Doc     FileKind = "Doc"
	Config  FileKind = "Config"
	CI      FileKind = "Ci"
	Asset   FileKind = "Asset"
	Other   FileKind = "Other"
)

var docExts = map[string]bool{"md": true, "txt": true, "rst": true, "adoc": true}

var configExts = map[string]bool{
	"toml": true, "yaml": true, "yml": true, "json": true, "ini": true,
	"env": true, "cfg": true, "conf": true, "properties": true, "xml": true,
}

var assetExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true, "ico": true,
	"woff": true, "woff2": true, "ttf": true, "eot": true, "mp3": true, "mp4": true,
	"webm": true, "pdf": true,
}

var configNames = map[string]bool{
	"Dockerfile": true, "Makefile": true, "Jenkinsfile": true, "Procfile": true,
}

// ClassifyFileKind classifies path into a FileKind per §4.1: CI directories
// take precedence over extension-based classification.
func ClassifyFileKind(path string) FileKind {
	for _, comp := range strings.Split(filepath.ToSlash(path), "/") {
		switch comp {
		case ".github", ".gitlab", ".circleci":
			return CI
		}
	}

	base := filepath.Base(path)
	if base == ".gitlab-ci.yml" {
		return CI
	}
	if configNames[base] {
		return Config
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := ForExtension(ext); ok {
		return Source
	}
	if docExts[ext] {
		return Doc
	}
	if configExts[ext] {
		return Config
	}
	if assetExts[ext] {
		return Asset
	}
	return Other
}

// ProjectLanguages scans root and one directory level deep for Cargo.toml,
// tsconfig.json, and package.json, returning the set of detected languages.
//
// tsconfig.json present at a directory suppresses the JavaScript signal that
// package.json would otherwise produce at the same directory, per §4.1.
func ProjectLanguages(root string) map[Kind]bool {
	result := make(map[Kind]bool)
	dirs := []string{root}
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}

	for _, dir := range dirs {
		hasTSConfig := fileExists(filepath.Join(dir, "tsconfig.json"))
		hasPackageJSON := fileExists(filepath.Join(dir, "package.json"))
		hasCargoToml := fileExists(filepath.Join(dir, "Cargo.toml"))

		if hasCargoToml {
			result[Rust] = true
		}
		if hasTSConfig {
			result[TypeScript] = true
		} else if hasPackageJSON {
			result[JavaScript] = true
		}
	}
	return result
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
