package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Recorder accumulates wall time per named stage. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	order  []string
}

func NewRecorder() *Recorder {
	return &Recorder{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer rec.Track("terrain.Synthesize")()
func (r *Recorder) Track(name string) func() {
	start := time.Now()
	return func() {
		r.Add(name, time.Since(start))
	}
}

func (r *Recorder) Add(name string, d time.Duration) {
	r.mu.Lock()
	if _, ok := r.totals[name]; !ok {
		r.order = append(r.order, name)
	}
	r.totals[name] += d
	r.mu.Unlock()
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	clear(r.totals)
	r.order = r.order[:0]
	r.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (r *Recorder) Snapshot() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Duration, len(r.totals))
	for k, v := range r.totals {
		out[k] = v
	}
	return out
}

// Stages returns stage names in first-recorded order.
func (r *Recorder) Stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// SumWithPrefix totals every stage whose name starts with prefix.
func (r *Recorder) SumWithPrefix(prefix string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum time.Duration
	for k, v := range r.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n slowest stages.
// Example: "terrain.Synthesize:4.2ms, export.SaveOBJ:2.1ms"
func (r *Recorder) TopN(n int) string {
	ss := r.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+FormatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// FormatMs renders d in milliseconds with one decimal, dropping ".0".
func FormatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}

var std = NewRecorder()

// Track records into the process-wide recorder.
func Track(name string) func() { return std.Track(name) }

func Reset() { std.Reset() }

func Snapshot() map[string]time.Duration { return std.Snapshot() }

func SumWithPrefix(prefix string) time.Duration { return std.SumWithPrefix(prefix) }

func TopN(n int) string { return std.TopN(n) }
