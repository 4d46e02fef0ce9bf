package asset

import (
	"os"
	"path/filepath"
	"strings"

	"umbrella-configurator/internal/config"
)

// extRank orders formats for the same variant; higher wins.
// PNG and TGA carry alpha, so they beat JPEG.
var extRank = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".webp": 2,
	".tga":  3,
	".png":  4,
}

// Index maps variant ids to base image paths.
type Index struct {
	entries map[string]string // variant id → full path
}

// BuildIndex scans dir (non-recursively, plus one level of subdirectories)
// for image files whose lowercase stem contains a variant id, e.g.
// "Blue umbrella.png" for "blue".
func BuildIndex(dir string, variants []string) *Index {
	idx := &Index{entries: make(map[string]string)}

	searchDirs := []string{dir}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() {
			searchDirs = append(searchDirs, filepath.Join(dir, e.Name()))
		}
	}

	for _, d := range searchDirs {
		files, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(f.Name()))
			rank, ok := extRank[ext]
			if !ok {
				continue
			}
			stem := strings.ToLower(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
			path := filepath.Join(d, f.Name())

			for _, v := range variants {
				if !matchStem(stem, strings.ToLower(v)) {
					continue
				}
				existing, exists := idx.entries[v]
				if !exists || rank > extRank[strings.ToLower(filepath.Ext(existing))] {
					idx.entries[v] = path
				}
			}
		}
	}

	return idx
}

// IndexConfig indexes cfg.AssetDir for the configured variants. Explicit
// per-variant asset paths win over discovered files.
func IndexConfig(cfg *config.Config) *Index {
	idx := BuildIndex(cfg.AssetDir, cfg.VariantIDs())
	for _, v := range cfg.Variants {
		if v.Asset != "" {
			idx.Set(v.ID, v.Asset)
		}
	}
	return idx
}

// matchStem reports whether id appears in stem as a whole word.
func matchStem(stem, id string) bool {
	fields := strings.FieldsFunc(stem, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
	for _, f := range fields {
		if f == id {
			return true
		}
	}
	return false
}

// Set pins a variant to an explicit path, overriding discovery.
func (idx *Index) Set(variant, path string) {
	idx.entries[strings.ToLower(variant)] = path
}

// ResolvePath returns the path for a variant, or ("", false).
func (idx *Index) ResolvePath(variant string) (string, bool) {
	path, ok := idx.entries[strings.ToLower(variant)]
	return path, ok
}

// Len returns the number of indexed variants.
func (idx *Index) Len() int {
	return len(idx.entries)
}
