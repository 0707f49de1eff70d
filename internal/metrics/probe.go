package metrics

import "time"

// RunResources is the resource usage attributed to one run.
type RunResources struct {
	CPUUser      time.Duration
	CPUSystem    time.Duration
	CPUAvailable bool
	// Memory holds the allocation activity during the run.
	Memory MemorySnapshot
	// System is the host load sampled when the run ended.
	System SystemStats
}

// CPUTime returns the total process CPU time spent during the run.
func (r RunResources) CPUTime() time.Duration {
	return r.CPUUser + r.CPUSystem
}

// Utilisation returns how many cores were busy on average over wall, or 0
// when CPU time is unavailable.
func (r RunResources) Utilisation(wall time.Duration) float64 {
	if !r.CPUAvailable || wall <= 0 {
		return 0
	}
	return float64(r.CPUTime()) / float64(wall)
}

// Probe measures the resources consumed between StartProbe and Stop.
type Probe struct {
	mc     *MemoryCollector
	before MemorySnapshot
	user   time.Duration
	system time.Duration
	ok     bool
}

// StartProbe takes the baseline readings. It also primes the host CPU
// sampler so that the reading taken by Stop covers the run.
func StartProbe() *Probe {
	p := &Probe{mc: NewMemoryCollector()}
	SampleSystem()
	p.user, p.system, p.ok = ProcessCPUTime()
	p.before = p.mc.Snapshot()
	return p
}

// Stop returns the resources used since StartProbe.
func (p *Probe) Stop() RunResources {
	after := p.mc.Snapshot()
	res := RunResources{
		Memory: after.Delta(p.before),
		System: SampleSystem(),
	}
	if user, system, ok := ProcessCPUTime(); ok && p.ok {
		res.CPUUser = user - p.user
		res.CPUSystem = system - p.system
		res.CPUAvailable = true
	}
	return res
}
