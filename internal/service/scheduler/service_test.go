package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

type mockRecomputer struct {
	updated int
	err     error
	calls   int
}

func (m *mockRecomputer) RecomputeRatings(ctx context.Context) (int, error) {
	m.calls++
	return m.updated, m.err
}

type mockFlusher struct {
	err   error
	calls int
}

func (m *mockFlusher) InvalidateAll(ctx context.Context) error {
	m.calls++
	return m.err
}

func testLogger() *logger.Logger {
	return logger.New("error", "console", "stderr")
}

func TestBuildCronExpression(t *testing.T) {
	tests := []struct {
		time     string
		expected string
		wantErr  bool
	}{
		{"03:00", "0 3 * * *", false},
		{"23:59", "59 23 * * *", false},
		{"00:05", "5 0 * * *", false},
		{"3", "", true},
		{"24:00", "", true},
		{"12:60", "", true},
		{"aa:bb", "", true},
	}

	for _, tt := range tests {
		svc := NewService(&config.SchedulerConfig{Time: tt.time}, nil, nil, testLogger())
		got, err := svc.buildCronExpression()
		if tt.wantErr {
			if err == nil {
				t.Errorf("buildCronExpression(%q) expected an error, got %q", tt.time, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("buildCronExpression(%q) unexpected error: %v", tt.time, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("buildCronExpression(%q) = %q, want %q", tt.time, got, tt.expected)
		}
	}
}

func TestStartDisabled(t *testing.T) {
	svc := NewService(&config.SchedulerConfig{Enabled: false}, nil, nil, testLogger())
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() with scheduler disabled unexpected error: %v", err)
	}
	svc.Stop()
}

func TestRunNightlyFlushesRecommendations(t *testing.T) {
	contents := &mockRecomputer{updated: 3}
	recs := &mockFlusher{}

	svc := NewService(&config.SchedulerConfig{}, contents, recs, testLogger())
	svc.runNightly()

	if contents.calls != 1 {
		t.Errorf("RecomputeRatings calls = %d, want 1", contents.calls)
	}
	if recs.calls != 1 {
		t.Errorf("InvalidateAll calls = %d, want 1", recs.calls)
	}
}

func TestRunNightlySkipsFlushOnRecomputeFailure(t *testing.T) {
	contents := &mockRecomputer{err: errors.New("db down")}
	recs := &mockFlusher{}

	svc := NewService(&config.SchedulerConfig{}, contents, recs, testLogger())
	svc.runNightly()

	if recs.calls != 0 {
		t.Errorf("InvalidateAll calls = %d, want 0 after a failed recompute", recs.calls)
	}
}

func TestRunNightlyToleratesFlushFailure(t *testing.T) {
	contents := &mockRecomputer{updated: 1}
	recs := &mockFlusher{err: errors.New("redis down")}

	svc := NewService(&config.SchedulerConfig{}, contents, recs, testLogger())
	svc.runNightly()

	if recs.calls != 1 {
		t.Errorf("InvalidateAll calls = %d, want 1", recs.calls)
	}
}

func TestRunNightlyWithoutFlusher(t *testing.T) {
	contents := &mockRecomputer{updated: 1}

	svc := NewService(&config.SchedulerConfig{}, contents, nil, testLogger())
	svc.runNightly()

	if contents.calls != 1 {
		t.Errorf("RecomputeRatings calls = %d, want 1", contents.calls)
	}
}
