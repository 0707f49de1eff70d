package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc  uint64 // bytes in use by application
	TotalAlloc uint64 // cumulative bytes allocated
	Sys        uint64 // total bytes obtained from OS
	Mallocs    uint64 // cumulative heap objects allocated
	NumGC      uint32 // number of completed GC cycles
	Goroutines int
}

// Delta returns the allocation activity between an earlier snapshot and s.
func (s MemorySnapshot) Delta(before MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:  s.HeapAlloc,
		TotalAlloc: s.TotalAlloc - before.TotalAlloc,
		Sys:        s.Sys,
		Mallocs:    s.Mallocs - before.Mallocs,
		NumGC:      s.NumGC - before.NumGC,
		Goroutines: s.Goroutines,
	}
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
