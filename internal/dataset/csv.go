package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"tokenpulse/internal/domain"
)

// ErrSchemaMismatch means an existing dataset was written with another column
// layout and must not be appended to.
var ErrSchemaMismatch = errors.New("dataset header does not match current column layout")

// CSVSink appends rows to one token's dataset file.
type CSVSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	header []string
}

// PathFor is where the dataset for token lives under dir.
func PathFor(dir string, token domain.TokenTarget) string {
	return filepath.Join(dir, token.String()+".csv")
}

// OpenCSV opens (creating if needed) the dataset for token. A missing or empty
// file gets the header; an existing one must already carry it.
func OpenCSV(dir string, token domain.TokenTarget) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	path := PathFor(dir, token)
	header := domain.Header()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}

	existing, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read dataset header %s: %w", path, err)
	}

	s := &CSVSink{path: path, file: f, writer: csv.NewWriter(f), header: header}
	if existing == nil {
		if err := s.writeRow(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write dataset header %s: %w", path, err)
		}
		return s, nil
	}
	if !slices.Equal(existing, header) {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrSchemaMismatch)
	}
	return s, nil
}

// readHeader returns nil for an empty file.
func readHeader(f *os.File) ([]string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *CSVSink) Path() string { return s.path }

// Append writes rec as one row and flushes it.
func (s *CSVSink) Append(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return fmt.Errorf("dataset %s is closed", s.path)
	}
	return s.writeRow(rec.Row())
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	s.writer.Flush()
	err := errors.Join(s.writer.Error(), s.file.Close())
	s.file = nil
	return err
}
