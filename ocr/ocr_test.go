package ocr

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain lines", "one\ntwo\nthree", []string{"one", "two", "three"}},
		{"blank and padded lines dropped", "  one  \n\n\t\n two \n", []string{"one", "two"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitLines(tt.raw)); diff != "" {
				t.Errorf("SplitLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusTimedOut, "timed_out"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRecognizeEmptyImage(t *testing.T) {
	eng := NewTesseract()
	out := eng.Recognize(context.Background(), nil)
	if out.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", out.Status, StatusFailed)
	}
	if len(out.Lines) != 0 {
		t.Errorf("Lines = %v, want empty", out.Lines)
	}
}

func TestRecognizeMissingBinary(t *testing.T) {
	eng := NewTesseract(WithCommand("/nonexistent/engageproof-ocr-binary"))
	out := eng.Recognize(context.Background(), []byte("fake image bytes"))
	if out.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", out.Status, StatusFailed)
	}
	if out.Err == nil {
		t.Error("Err = nil, want launch failure")
	}
}

// mapCache is an in-memory Cacher for tests.
type mapCache struct {
	entries map[string][]byte
	fetches int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (m *mapCache) GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), _ ...time.Duration) ([]byte, error) {
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	m.fetches++
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	m.entries[key] = v
	return v, nil
}

func (m *mapCache) TTL() time.Duration { return time.Minute }

func TestRecognizeCacheHit(t *testing.T) {
	img := []byte("panel image bytes")
	cache := newMapCache()
	cache.entries[ImageKey(img)] = []byte("@tester99 · 2 days ago\ngreat video\n")

	// The binary path is unrunnable; a hit must never reach it.
	eng := NewTesseract(
		WithCommand("/nonexistent/engageproof-ocr-binary"),
		WithCache(cache),
	)

	out := eng.Recognize(context.Background(), img)
	if out.Status != StatusOK {
		t.Fatalf("Status = %v (err %v), want %v", out.Status, out.Err, StatusOK)
	}
	want := []string{"@tester99 · 2 days ago", "great video"}
	if diff := cmp.Diff(want, out.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
	if cache.fetches != 0 {
		t.Errorf("fetches = %d, want 0", cache.fetches)
	}
}

func TestRecognizeCacheMissFailure(t *testing.T) {
	img := []byte("other panel bytes")
	cache := newMapCache()
	eng := NewTesseract(
		WithCommand("/nonexistent/engageproof-ocr-binary"),
		WithCache(cache),
	)

	out := eng.Recognize(context.Background(), img)
	if out.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", out.Status, StatusFailed)
	}
	if len(cache.entries) != 0 {
		t.Errorf("failed recognition was cached: %v", cache.entries)
	}
}

// errCache fails every lookup with a fixed error.
type errCache struct{ err error }

func (e *errCache) GetSet(context.Context, string, func(context.Context) ([]byte, error), ...time.Duration) ([]byte, error) {
	return nil, e.err
}

func (e *errCache) TTL() time.Duration { return 0 }

func TestRecognizeClassifiesTimeout(t *testing.T) {
	eng := NewTesseract(
		WithCommand("/nonexistent/engageproof-ocr-binary"),
		WithCache(&errCache{err: context.DeadlineExceeded}),
	)

	out := eng.Recognize(context.Background(), []byte("image"))
	if out.Status != StatusTimedOut {
		t.Errorf("Status = %v, want %v", out.Status, StatusTimedOut)
	}
}

func TestImageKeyStable(t *testing.T) {
	a := ImageKey([]byte("same bytes"))
	b := ImageKey([]byte("same bytes"))
	c := ImageKey([]byte("different bytes"))
	if a != b {
		t.Error("ImageKey not deterministic")
	}
	if a == c {
		t.Error("ImageKey collision for different inputs")
	}
	if len(a) != 64 {
		t.Errorf("ImageKey length = %d, want 64 hex chars", len(a))
	}
}
