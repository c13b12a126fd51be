package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tokenpulse/internal/dataset"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/observability"
)

func TestValidateTargets(t *testing.T) {
	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = strings.Repeat("a", i+1)
	}

	cases := []struct {
		name    string
		raw     []string
		wantErr error
	}{
		{name: "none", raw: nil, wantErr: ErrTargetCount},
		{name: "too many", raw: eleven, wantErr: ErrTargetCount},
		{name: "duplicate after trim", raw: []string{"abc", " abc "}, wantErr: ErrDuplicateTarget},
		{name: "empty", raw: []string{"abc", "  "}, wantErr: domain.ErrEmptyTarget},
		{name: "path", raw: []string{"../etc"}, wantErr: domain.ErrInvalidTarget},
		{name: "ok", raw: []string{"abc", "def"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateTargets(tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.raw) {
				t.Fatalf("expected %d targets, got %d", len(tc.raw), len(got))
			}
		})
	}
}

func TestNewSupervisorOpensDatasets(t *testing.T) {
	dir := t.TempDir()
	providers, _, _, _ := testProviders()
	s, err := NewSupervisor(SupervisorConfig{DatasetDir: dir}, Dependencies{Providers: providers}, []string{"aaa", "bbb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.closeSinks()

	if s.RunID() == "" {
		t.Fatal("expected a run id")
	}
	for _, tok := range []string{"aaa", "bbb"} {
		raw, err := os.ReadFile(filepath.Join(dir, tok+".csv"))
		if err != nil {
			t.Fatalf("expected dataset for %s: %v", tok, err)
		}
		if !strings.HasPrefix(string(raw), "Timestamp,Token Address,") {
			t.Fatalf("expected header in %s, got %q", tok, raw)
		}
	}
}

func TestNewSupervisorFailsOnSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bbb.csv"), []byte("a,b,c\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	providers, _, _, _ := testProviders()

	_, err := NewSupervisor(SupervisorConfig{DatasetDir: dir}, Dependencies{Providers: providers}, []string{"aaa", "bbb"})
	if !errors.Is(err, dataset.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

type failingMirror struct{ calls atomic.Int32 }

func (m *failingMirror) Name() string { return "broken" }

func (m *failingMirror) Append(context.Context, domain.Record) error {
	m.calls.Add(1)
	return errors.New("mirror down")
}

func TestSupervisorRunWritesRows(t *testing.T) {
	dir := t.TempDir()
	providers, _, _, _ := testProviders()
	mirror := &failingMirror{}
	metrics := observability.NewMetrics("")

	s, err := NewSupervisor(SupervisorConfig{
		DatasetDir: dir,
		Worker:     WorkerOptions{Interval: time.Millisecond, Tick: time.Millisecond, MaxCycles: 2},
	}, Dependencies{Providers: providers, Metrics: metrics, Mirrors: []dataset.Mirror{mirror}}, []string{"aaa", "bbb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, st := range s.Statuses() {
		if st.State != "stopped" || st.Rows != 2 {
			t.Fatalf("unexpected status: %+v", st)
		}
	}
	if mirror.calls.Load() != 4 {
		t.Fatalf("expected mirror to see every row, got %d", mirror.calls.Load())
	}

	raw, err := os.ReadFile(filepath.Join(dir, "aaa.csv"))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}

	rec, ok := s.Latest("aaa")
	if !ok || rec.Value(domain.ColName) != "Bonk" {
		t.Fatalf("expected latest record, got ok=%v rec=%+v", ok, rec)
	}
	if _, ok := s.Latest("zzz"); ok {
		t.Fatal("expected no record for unknown token")
	}
}

func TestSupervisorCancellation(t *testing.T) {
	dir := t.TempDir()
	providers, _, _, _ := testProviders()
	s, err := NewSupervisor(SupervisorConfig{
		DatasetDir: dir,
		Worker:     WorkerOptions{Interval: time.Hour, Tick: 5 * time.Millisecond, MaxCycles: 0},
	}, Dependencies{Providers: providers}, []string{"aaa", "bbb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	eventually(t, func() bool {
		for _, st := range s.Statuses() {
			if st.State != "sleeping" {
				return false
			}
		}
		return true
	})
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not drain")
	}
	for _, st := range s.Statuses() {
		if st.State != "stopped" || st.Rows != 1 {
			t.Fatalf("unexpected status after cancel: %+v", st)
		}
	}
}
