package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
)

// DefaultPath is the backing file used when none is configured.
const DefaultPath = "inventory.txt"

// fileStore implements ProductStore on top of a flat text file, one record per line.
// Every save rewrites the whole file.
type fileStore struct {
	path   string
	codec  Codec
	logger *slog.Logger
}

// NewFileStore creates a new instance of ProductStore backed by the file at path.
func NewFileStore(path string, codec Codec, logger *slog.Logger) ProductStore {
	if path == "" {
		path = DefaultPath
	}
	return &fileStore{
		path:   path,
		codec:  codec,
		logger: logger.With("component", "file_store", "path", path),
	}
}

// Load reads all records, skipping blank lines. A missing file is an empty inventory.
// Lines have no length limit.
func (s *fileStore) Load() ([]Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Backing file does not exist, starting empty")
			return []Product{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	products := make([]Product, 0)
	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read %s: %w", s.path, readErr)
		}
		if line == "" && readErr != nil {
			break
		}
		lineNo++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			p, err := s.codec.Parse(line)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", s.path, lineNo, err)
			}
			if s.codec.IsShort(line) {
				s.logger.Warn("Malformed record loaded as empty product", "line", lineNo)
			}
			products = append(products, p)
		}
		if readErr != nil {
			break
		}
	}

	s.logger.Debug("Loaded products", "count", len(products))
	return products, nil
}

// SaveAll truncates the file and writes every product on its own line.
func (s *fileStore) SaveAll(products []Product) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrSaveFailed, err)
	}

	w := bufio.NewWriter(f)
	for _, p := range products {
		if _, err := w.WriteString(s.codec.Format(p) + "\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: %w", perrors.ErrSaveFailed, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", perrors.ErrSaveFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrSaveFailed, err)
	}

	s.logger.Debug("Saved products", "count", len(products))
	return nil
}
