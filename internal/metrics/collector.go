// Package metrics builds composite system snapshots by fanning out a
// fixed batch of diagnostic commands over a shared remote session.
package metrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/pkg/sshutil"
)

// DefaultCollectTimeout bounds one whole snapshot build.
const DefaultCollectTimeout = 30 * time.Second

// Collector assembles one Snapshot per Collect call by issuing the fixed
// diagnostic command set concurrently against a shared runner.
//
// The underlying session serializes actual command execution, so the
// fan-out overlaps scheduling and wait overhead only; total snapshot
// latency is the sum of the individual round trips, not the max.
type Collector struct {
	runner  sshutil.Runner
	history *History
	log     logger.Logger
	timeout time.Duration

	mu      sync.Mutex
	lastNet map[string]NetworkStats // previous raw counters per target identity
}

// NewCollector creates a collector over the given runner.
func NewCollector(runner sshutil.Runner) *Collector {
	return &Collector{
		runner:  runner,
		history: NewHistory(),
		log:     logger.NewEnvLogger("[metrics]"),
		timeout: DefaultCollectTimeout,
		lastNet: make(map[string]NetworkStats),
	}
}

// SetLogger replaces the collector's logger.
func (c *Collector) SetLogger(log logger.Logger) {
	c.log = log
}

// SetTimeout sets the per-snapshot collection deadline.
func (c *Collector) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// History exposes the trend buffers for the collector's caller.
func (c *Collector) History() *History {
	return c.history
}

// ResetNetwork forgets the stored raw counters for a target, so the next
// snapshot records a zero-delta point. Called after a (re)connect.
func (c *Collector) ResetNetwork(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lastNet, host)
}

// Indices into the per-snapshot command batch.
const (
	idxCPU = iota
	idxMemory
	idxDisk
	idxLoadAvg
	idxUptime
	idxProcesses
	idxNetwork
	idxInterface
	commandCount
)

// Collect issues the full diagnostic batch, merges the results into one
// Snapshot, and appends the trend buffers. Any single failed or
// unparsable command degrades its field to a zero value; Collect itself
// fails only if the caller's context is already dead.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	commands := [commandCount]string{
		idxCPU:       cmdCPU,
		idxMemory:    cmdMemory,
		idxDisk:      cmdDisk,
		idxLoadAvg:   cmdLoadAvg,
		idxUptime:    cmdUptime,
		idxProcesses: cmdProcessCount,
		idxNetwork:   cmdNetwork,
		idxInterface: cmdInterface,
	}

	var outputs [commandCount]string
	var wg sync.WaitGroup

	for i, cmd := range commands {
		wg.Add(1)
		go func(i int, cmd string) {
			defer wg.Done()
			out, err := c.runner.Execute(ctx, cmd)
			if err != nil {
				c.log.Debug("command %d degraded to default: %v", i, err)
				return
			}
			outputs[i] = out
		}(i, cmd)
	}
	wg.Wait()

	snap := &Snapshot{
		CPUPercent:    parseFloat(outputs[idxCPU]),
		DiskUsage:     parseDiskUsage(outputs[idxDisk]),
		LoadAvg:       parseLoadAvg(outputs[idxLoadAvg]),
		UptimeSeconds: parseUint(outputs[idxUptime]),
		ProcessCount:  int(parseUint(outputs[idxProcesses])),
	}
	snap.MemoryUsed, snap.MemoryTotal = parseMemoryPair(outputs[idxMemory])
	if snap.MemoryTotal > 0 {
		snap.MemoryPercent = float64(snap.MemoryUsed) / float64(snap.MemoryTotal) * 100
	}

	network := parseNetworkCounters(outputs[idxNetwork])
	network.Interface = strings.TrimSpace(outputs[idxInterface])
	snap.Network = network

	point := c.networkDelta(network)

	c.history.AppendCPU(snap.CPUPercent)
	c.history.AppendMemory(snap.MemoryPercent)
	c.history.AppendNetwork(point)

	snap.CPUHistory = c.history.CPU()
	snap.MemoryHistory = c.history.Memory()
	snap.NetworkHistory = c.history.Network()

	return snap, nil
}

// networkDelta computes the saturating counter delta against the last
// stored sample for this target, then stores the new raw sample
// unconditionally. The first sample after a reset yields a zero delta.
func (c *Collector) networkDelta(current NetworkStats) NetworkPoint {
	point := NetworkPoint{TimestampMillis: time.Now().UnixMilli()}

	c.mu.Lock()
	defer c.mu.Unlock()

	host := c.runner.Host()
	if last, ok := c.lastNet[host]; ok {
		point.BytesSent = saturatingSub(current.BytesSent, last.BytesSent)
		point.BytesRecv = saturatingSub(current.BytesRecv, last.BytesRecv)
	}
	c.lastNet[host] = current

	return point
}

// saturatingSub returns a-b, clamped at zero for counter resets.
func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
