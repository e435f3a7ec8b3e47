package datadog

import (
	"reflect"
	"sync"
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"

	"luxhousing/internal/metrics"
)

// recordingClient captures Count and Histogram calls.
type recordingClient struct {
	statsd.NoOpClient

	mu     sync.Mutex
	counts []string
	tags   [][]string
	hists  []float64
	closed bool
}

func (r *recordingClient) Count(name string, value int64, tags []string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, name)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recordingClient) Histogram(name string, value float64, tags []string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hists = append(r.hists, value)
	return nil
}

func (r *recordingClient) Close() error {
	r.closed = true
	return nil
}

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestBackend_ForwardsWithSortedTags(t *testing.T) {
	t.Parallel()

	rc := &recordingClient{}
	b := &Backend{client: rc}

	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "load", "job": "lux", "status": "success"})
	b.ObserveHistogram(metrics.StageDuration, 0.25, metrics.Labels{"stage": "load"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(rc.counts) != 1 || rc.counts[0] != metrics.StageTotal {
		t.Fatalf("counts=%v", rc.counts)
	}
	want := []string{"job:lux", "stage:load", "status:success"}
	if !reflect.DeepEqual(rc.tags[0], want) {
		t.Fatalf("tags=%v want %v", rc.tags[0], want)
	}
	if len(rc.hists) != 1 || rc.hists[0] != 0.25 {
		t.Fatalf("hists=%v", rc.hists)
	}
	if !rc.closed {
		t.Fatalf("Flush did not close the client")
	}
}

func TestBackend_NilClientIsNoop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.RowsTotal, 1, nil)
	b.ObserveHistogram(metrics.StageDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if labelsToTags(nil) != nil {
		t.Fatalf("labelsToTags(nil) should be nil")
	}
}
