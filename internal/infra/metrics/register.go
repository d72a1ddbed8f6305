package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are declared next to the code they instrument and enqueued
// from init(); MustRegister flushes the queue into the default registry.
var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func enqueue(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister registers every enqueued collector. Safe to call more than
// once; only the first call registers.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pending...)
	})
}
