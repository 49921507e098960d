package metrics

import "sync"

// MaxHistoryPoints is the capacity of each trend buffer.
const MaxHistoryPoints = 10

// History holds the three bounded trend buffers: CPU percent, memory
// percent, and network delta points. Each buffer has its own lock, so a
// reader can observe one buffer updated before another; appends from one
// snapshot are ordered but not atomic as a group.
type History struct {
	cpu    floatBuffer
	memory floatBuffer
	net    pointBuffer
}

// NewHistory creates empty trend buffers.
func NewHistory() *History {
	return &History{
		cpu:    floatBuffer{cap: MaxHistoryPoints},
		memory: floatBuffer{cap: MaxHistoryPoints},
		net:    pointBuffer{cap: MaxHistoryPoints},
	}
}

// AppendCPU pushes a CPU percent sample, evicting the oldest at capacity.
func (h *History) AppendCPU(v float64) { h.cpu.append(v) }

// AppendMemory pushes a memory percent sample, evicting the oldest at capacity.
func (h *History) AppendMemory(v float64) { h.memory.append(v) }

// AppendNetwork pushes a network delta point, evicting the oldest at capacity.
func (h *History) AppendNetwork(p NetworkPoint) { h.net.append(p) }

// CPU returns an ordered copy of the CPU buffer, oldest first.
func (h *History) CPU() []float64 { return h.cpu.snapshot() }

// Memory returns an ordered copy of the memory buffer, oldest first.
func (h *History) Memory() []float64 { return h.memory.snapshot() }

// Network returns an ordered copy of the network buffer, oldest first.
func (h *History) Network() []NetworkPoint { return h.net.snapshot() }

// floatBuffer is a bounded FIFO of float64 samples.
type floatBuffer struct {
	mu   sync.Mutex
	data []float64
	cap  int
}

func (b *floatBuffer) append(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, v)
	if len(b.data) > b.cap {
		b.data = b.data[1:]
	}
}

func (b *floatBuffer) snapshot() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return out
}

// pointBuffer is a bounded FIFO of network delta points.
type pointBuffer struct {
	mu   sync.Mutex
	data []NetworkPoint
	cap  int
}

func (b *pointBuffer) append(p NetworkPoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p)
	if len(b.data) > b.cap {
		b.data = b.data[1:]
	}
}

func (b *pointBuffer) snapshot() []NetworkPoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]NetworkPoint, len(b.data))
	copy(out, b.data)
	return out
}
