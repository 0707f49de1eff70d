package tui

// sparkBlocks maps levels 0..7 to Unicode block elements.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// History keeps the most recent percentage samples of a host metric.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history holding up to capacity samples.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{data: make([]float64, capacity)}
}

// Push records a sample, dropping the oldest one when full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int { return h.count }

// Last returns the most recent sample, or 0 if empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)]
}

// Values returns the samples oldest first.
func (h *History) Values() []float64 {
	if h.count == 0 {
		return nil
	}
	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// Resize changes the capacity and keeps the newest samples that fit.
func (h *History) Resize(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	if capacity == len(h.data) {
		return
	}
	old := h.Values()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	h.data = make([]float64, capacity)
	h.head, h.count = 0, 0
	for _, v := range old {
		h.Push(v)
	}
}

// Reset drops every sample.
func (h *History) Reset() {
	h.head, h.count = 0, 0
}

// RenderSparkline draws percentages (0..100) as block characters. Values
// outside the range are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparkBlocks[min(int(v/100*7), 7)]
	}
	return string(runes)
}
