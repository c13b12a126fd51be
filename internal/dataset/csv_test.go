package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tokenpulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func record(token string, name string) domain.Record {
	rec := domain.NewRecord(domain.TokenTarget(token), time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	rec.Merge(map[string]string{domain.ColName: name})
	return rec
}

func TestOpenCSVWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	sink, err := OpenCSV(dir, "tok")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), record("tok", "first")))
	require.NoError(t, sink.Close())

	sink, err = OpenCSV(dir, "tok")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), record("tok", "second")))
	require.NoError(t, sink.Close())

	rows := readAll(t, PathFor(dir, "tok"))
	require.Len(t, rows, 3)
	assert.Equal(t, domain.Header(), rows[0])
	assert.Equal(t, "first", rows[1][2])
	assert.Equal(t, "second", rows[2][2])
	assert.Equal(t, "2025-01-02 03:04:05", rows[1][0])
	assert.Equal(t, "NA", rows[1][len(rows[1])-1])
}

func TestOpenCSVWritesHeaderIntoEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(PathFor(dir, "tok"), nil, 0o644))

	sink, err := OpenCSV(dir, "tok")
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	rows := readAll(t, PathFor(dir, "tok"))
	require.Len(t, rows, 1)
	assert.Equal(t, domain.Header(), rows[0])
}

func TestOpenCSVRejectsForeignHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(PathFor(dir, "tok"), []byte("Timestamp,Token Address,Name\n"), 0o644))

	_, err := OpenCSV(dir, "tok")
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAppendQuotesDelimiters(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenCSV(dir, "tok")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), record("tok", `Bonk, "the" dog`)))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(PathFor(dir, "tok"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"Bonk, ""the"" dog"`))

	rows := readAll(t, PathFor(dir, "tok"))
	assert.Equal(t, `Bonk, "the" dog`, rows[1][2])
}

func TestAppendAfterCloseFails(t *testing.T) {
	sink, err := OpenCSV(t.TempDir(), "tok")
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.Error(t, sink.Append(context.Background(), record("tok", "x")))
	assert.NoError(t, sink.Close())
}

type stubSink struct {
	name string
	err  error
	got  []domain.Record
}

func (s *stubSink) Append(_ context.Context, rec domain.Record) error {
	s.got = append(s.got, rec)
	return s.err
}

func (s *stubSink) Name() string { return s.name }

func TestFanoutReturnsPrimaryErrorOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	primary := &stubSink{}
	broken := &stubSink{name: "redis", err: errors.New("down")}
	ok := &stubSink{name: "postgres"}

	f := NewFanout(primary, zap.New(core).Sugar(), broken, ok)
	require.NoError(t, f.Append(context.Background(), record("tok", "x")))
	assert.Len(t, primary.got, 1)
	assert.Len(t, ok.got, 1)
	assert.Equal(t, 1, logs.FilterMessage("mirror append failed").Len())

	primary.err = errors.New("disk full")
	ok.got = nil
	assert.EqualError(t, f.Append(context.Background(), record("tok", "y")), "disk full")
	assert.Empty(t, ok.got, "mirrors are skipped when the primary fails")
}
