package bench

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"time"
)

// Report is the result of a run. It marshals to the JSON written by
// "nano bench --json".
type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Go        string    `json:"go"`
	Platform  string    `json:"platform"`
	CPUs      int       `json:"cpus"`

	Clients      int     `json:"clients"`
	DurationMS   int64   `json:"duration_ms"`
	Rate         float64 `json:"rate_per_client"`
	ListSize     int     `json:"list_size"`
	PayloadBytes int     `json:"payload_bytes"`

	Events       uint64  `json:"events"`
	EventsPerSec float64 `json:"events_per_sec"`

	Latency Latency `json:"latency_ms"`
	Wire    Wire    `json:"wire"`
	Memory  Memory  `json:"memory"`
	Errors  Errors  `json:"errors"`
}

// Latency summarizes round trips in milliseconds.
type Latency struct {
	Samples int     `json:"samples"`
	Min     float64 `json:"min"`
	P50     float64 `json:"p50"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
	Max     float64 `json:"max"`
}

// Wire counts protocol traffic.
type Wire struct {
	EventBytes        uint64            `json:"event_bytes"`
	PatchBytes        uint64            `json:"patch_bytes"`
	Patches           uint64            `json:"patches"`
	Mutations         uint64            `json:"mutations"`
	MutationsPerEvent float64           `json:"mutations_per_event"`
	Ops               map[string]uint64 `json:"ops"`
}

// Memory is the process-wide allocation during the run.
type Memory struct {
	AllocMB      float64 `json:"alloc_mb"`
	HeapLiveMB   float64 `json:"heap_live_mb"`
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"gc_pause_total_ms"`
}

// Errors counts failures by kind.
type Errors struct {
	FailedClients uint64 `json:"failed_clients"`
	Dial          uint64 `json:"dial"`
	Write         uint64 `json:"write"`
	Decode        uint64 `json:"decode"`
	Server        uint64 `json:"server"`
	Timeouts      uint64 `json:"timeouts"`
}

// Total returns the number of failed clients.
func (e Errors) Total() uint64 { return e.FailedClients }

type memSnapshot struct {
	before runtime.MemStats
}

func startMemSnapshot() *memSnapshot {
	s := &memSnapshot{}
	runtime.GC()
	runtime.ReadMemStats(&s.before)
	return s
}

func (s *memSnapshot) stop() Memory {
	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	return Memory{
		AllocMB:      float64(after.TotalAlloc-s.before.TotalAlloc) / (1 << 20),
		HeapLiveMB:   float64(after.HeapAlloc) / (1 << 20),
		NumGC:        after.NumGC - s.before.NumGC,
		PauseTotalMS: ms(time.Duration(after.PauseTotalNs - s.before.PauseTotalNs)),
	}
}

func newReport(opts Options, elapsed time.Duration, c *counters, mem Memory) *Report {
	events := c.completed.Load()
	mutations := c.mutations.Load()
	r := &Report{
		Timestamp:    time.Now().UTC(),
		Go:           runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		CPUs:         runtime.NumCPU(),
		Clients:      opts.Clients,
		DurationMS:   opts.Duration.Milliseconds(),
		Rate:         opts.Rate,
		ListSize:     opts.ListSize,
		PayloadBytes: opts.PayloadBytes,
		Events:       events,
		EventsPerSec: float64(events) / math.Max(elapsed.Seconds(), 0.001),
		Latency:      summarize(c.samples),
		Wire: Wire{
			EventBytes: c.eventBytes.Load(),
			PatchBytes: c.patchBytes.Load(),
			Patches:    c.patches.Load(),
			Mutations:  mutations,
			Ops:        c.ops,
		},
		Memory: mem,
		Errors: Errors{
			FailedClients: c.failedClients.Load(),
			Dial:          c.dial.Load(),
			Write:         c.write.Load(),
			Decode:        c.decode.Load(),
			Server:        c.serverErrors.Load(),
			Timeouts:      c.timeouts.Load(),
		},
	}
	if events > 0 {
		r.Wire.MutationsPerEvent = float64(mutations) / float64(events)
	}
	return r
}

// summarize sorts samples in place and returns their distribution.
func summarize(samples []time.Duration) Latency {
	if len(samples) == 0 {
		return Latency{}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return Latency{
		Samples: len(samples),
		Min:     ms(samples[0]),
		P50:     ms(quantile(samples, 0.50)),
		P95:     ms(quantile(samples, 0.95)),
		P99:     ms(quantile(samples, 0.99)),
		Max:     ms(samples[len(samples)-1]),
	}
}

// quantile returns the nearest-rank q-quantile of sorted.
func quantile(sorted []time.Duration, q float64) time.Duration {
	rank := int(math.Ceil(q*float64(len(sorted)))) - 1
	return sorted[min(max(rank, 0), len(sorted)-1)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WriteSummary writes a human-readable summary of r.
func (r *Report) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "clients %d, %s at %.1f events/s each, list of %d\n",
		r.Clients, time.Duration(r.DurationMS)*time.Millisecond, r.Rate, r.ListSize)
	fmt.Fprintf(w, "events     %d (%.1f/s)\n", r.Events, r.EventsPerSec)
	if r.Latency.Samples > 0 {
		fmt.Fprintf(w, "round trip min %.2f  p50 %.2f  p95 %.2f  p99 %.2f  max %.2f ms\n",
			r.Latency.Min, r.Latency.P50, r.Latency.P95, r.Latency.P99, r.Latency.Max)
	}
	fmt.Fprintf(w, "wire       %d event bytes, %d patch bytes, %.2f mutations/event\n",
		r.Wire.EventBytes, r.Wire.PatchBytes, r.Wire.MutationsPerEvent)
	fmt.Fprintf(w, "memory     %.2f MB allocated, %d GCs, %.2f ms paused\n",
		r.Memory.AllocMB, r.Memory.NumGC, r.Memory.PauseTotalMS)
	if r.Errors.Total() > 0 {
		fmt.Fprintf(w, "errors     %d clients failed (dial %d, write %d, decode %d, server %d, timeout %d)\n",
			r.Errors.FailedClients, r.Errors.Dial, r.Errors.Write, r.Errors.Decode, r.Errors.Server, r.Errors.Timeouts)
	}
}
