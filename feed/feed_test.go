package feed

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/ribbons/components"
)

func TestNewPercentagesSumsToOne(t *testing.T) {
	cases := []struct{ full, partial float64 }{
		{0.185, 0.157},
		{0, 0},
		{1, 0},
		{0.3, 0.7},
		{0.1, 0.2},
	}
	for _, tc := range cases {
		p, err := NewPercentages(tc.full, tc.partial)
		if err != nil {
			t.Errorf("NewPercentages(%v, %v): %v", tc.full, tc.partial, err)
			continue
		}
		if sum := p.Full + p.Partial + p.Manual; math.Abs(sum-1) > 1e-12 {
			t.Errorf("split (%v, %v) sums to %v", tc.full, tc.partial, sum)
		}
	}
}

func TestNewPercentagesRejectsInvalid(t *testing.T) {
	cases := []struct{ full, partial float64 }{
		{-0.1, 0.2},
		{0.6, 0.6},
		{math.NaN(), 0.1},
		{0.1, math.Inf(1)},
	}
	for _, tc := range cases {
		if _, err := NewPercentages(tc.full, tc.partial); err == nil {
			t.Errorf("expected error for (%v, %v)", tc.full, tc.partial)
		}
	}
}

func TestPick(t *testing.T) {
	p, _ := NewPercentages(0.2, 0.3)
	tests := []struct {
		r    float64
		want components.ColorClass
	}{
		{0, components.ClassFull},
		{0.19, components.ClassFull},
		{0.2, components.ClassPartial},
		{0.49, components.ClassPartial},
		{0.5, components.ClassManual},
		{0.999, components.ClassManual},
	}
	for _, tc := range tests {
		if got := p.Pick(tc.r); got != tc.want {
			t.Errorf("Pick(%v) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode(strings.NewReader(`{"full": 0.25, "partial": 0.5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Full != 0.25 || p.Partial != 0.5 || p.Manual != 0.25 {
		t.Errorf("unexpected split %+v", p)
	}

	bad := []string{
		`{"full": 0.25}`,
		`{"full": 0.9, "partial": 0.9}`,
		`not json`,
	}
	for _, doc := range bad {
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Errorf("expected error decoding %q", doc)
		}
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pct.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"full": 0.185, "partial": 0.157}`))
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/pct.json", srv.Client())
	p, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if math.Abs(p.Manual-0.658) > 1e-9 {
		t.Errorf("expected manual 0.658, got %v", p.Manual)
	}

	missing := NewSource(srv.URL+"/missing.json", srv.Client())
	if _, err := missing.Fetch(context.Background()); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pct.json")
	if err := os.WriteFile(path, []byte(`{"full": 0.5, "partial": 0.1}`), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewSource(path, nil)
	if _, ok := src.(*FileSource); !ok {
		t.Fatalf("expected FileSource for a path, got %T", src)
	}
	p, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.Full != 0.5 {
		t.Errorf("expected full 0.5, got %v", p.Full)
	}

	if _, err := (&FileSource{Path: path + ".gone"}).Fetch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

// stubSource returns queued results in order, then repeats the last one.
type stubSource struct {
	results []error
	split   Percentages
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context) (Percentages, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	if err := s.results[i]; err != nil {
		return Percentages{}, err
	}
	return s.split, nil
}

func drain(p *Poller) (Update, bool) {
	select {
	case u := <-p.Updates():
		return u, true
	default:
		return Update{}, false
	}
}

func TestPollerFallbackBeforeFirstSuccess(t *testing.T) {
	defaults, _ := NewPercentages(0.185, 0.157)
	split, _ := NewPercentages(0.4, 0.4)
	down := errors.New("down")
	src := &stubSource{results: []error{down, down, nil, down}, split: split}
	p := NewPoller(src, time.Hour, time.Second, defaults)
	ctx := context.Background()

	p.Poll(ctx)
	u, ok := drain(p)
	if !ok || !u.Fallback || u.Percentages != defaults {
		t.Fatalf("expected fallback update with defaults, got %+v (ok=%v)", u, ok)
	}

	// Second failure before any success does not re-publish defaults
	p.Poll(ctx)
	if u, ok := drain(p); ok {
		t.Errorf("expected no update on repeated failure, got %+v", u)
	}

	p.Poll(ctx)
	u, ok = drain(p)
	if !ok || u.Fallback || u.Percentages != split {
		t.Fatalf("expected fetched split, got %+v (ok=%v)", u, ok)
	}

	// Failure after success keeps the last split silently
	p.Poll(ctx)
	if u, ok := drain(p); ok {
		t.Errorf("expected no update after failure, got %+v", u)
	}
}

func TestPollerKeepsNewestPendingUpdate(t *testing.T) {
	first, _ := NewPercentages(0.1, 0.1)
	second, _ := NewPercentages(0.2, 0.2)
	src := &stubSource{results: []error{nil}, split: first}
	p := NewPoller(src, time.Hour, 0, Percentages{})

	p.Poll(context.Background())
	src.split = second
	p.Poll(context.Background())

	u, ok := drain(p)
	if !ok || u.Percentages != second {
		t.Errorf("expected newest split %+v, got %+v", second, u.Percentages)
	}
	if _, ok := drain(p); ok {
		t.Error("expected a single pending update")
	}
}

func TestPollerStartStop(t *testing.T) {
	split, _ := NewPercentages(0.3, 0.3)
	p := NewPoller(&stubSource{results: []error{nil}, split: split}, time.Hour, time.Second, Percentages{})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case u := <-p.Updates():
		if u.Percentages != split {
			t.Errorf("unexpected split %+v", u.Percentages)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update from initial fetch")
	}
	p.Stop()
}
