package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HiddenPrefix marks AppleDouble resource-fork files that sit next to real ones
const HiddenPrefix = "._"

// File is one input found in a directory
type File struct {
	Path string
	Name string // base name
	Stem string // base name without extension
}

// Files lists regular files in dir whose extension matches one of exts
// (case-insensitive, with the dot), skipping hidden "._" files. Results are
// sorted by name. A missing directory is an error.
func Files(dir string, exts ...string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, HiddenPrefix) {
			continue
		}
		ext := filepath.Ext(name)
		if !matches(ext, exts) {
			continue
		}
		files = append(files, File{
			Path: filepath.Join(dir, name),
			Name: name,
			Stem: strings.TrimSuffix(name, ext),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func matches(ext string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
