// Package loader reads the documents to index from a directory.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdfchat/internal/domain"
)

// DirectoryReader loads every regular, non-hidden file directly inside dir.
type DirectoryReader struct {
	dir string
}

func NewDirectoryReader(dir string) *DirectoryReader {
	return &DirectoryReader{dir: dir}
}

// LoadData returns one document per file, in lexical order. PDF files are
// converted to plain text, everything else is read as is.
func (r *DirectoryReader) LoadData(ctx context.Context) ([]domain.Document, error) {
	info, err := os.Stat(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("directory %s does not exist: %w", r.dir, err)
	}
	if err != nil {
		return nil, fmt.Errorf("stat directory %s: %w", r.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", r.dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(r.dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files found in %s", r.dir)
	}
	sort.Strings(paths)

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		docs = append(docs, domain.Document{
			ID:   path,
			Name: filepath.Base(path),
			Path: path,
			Text: text,
		})
	}

	log.Printf("loaded %d documents from %s", len(docs), r.dir)
	return docs, nil
}

func readFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
