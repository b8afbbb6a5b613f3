package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/conceptmap/internal/model"
)

// documentExts are the transcript formats ListDocuments picks up
var documentExts = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
}

// ListDocuments returns transcript paths under dir in lexical order,
// at most maxFiles of them (no limit when maxFiles <= 0)
func ListDocuments(dir string, maxFiles int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !documentExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if maxFiles > 0 && len(paths) > maxFiles {
		paths = paths[:maxFiles]
	}
	return paths, nil
}

// ReadDocument loads a transcript. HTML files are reduced to visible text.
func ReadDocument(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read document: %w", err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = visibleText(text)
		if err != nil {
			return model.Document{}, fmt.Errorf("parse html %s: %w", filepath.Base(path), err)
		}
	}

	return model.Document{ID: path, Path: path, Text: text}, nil
}
