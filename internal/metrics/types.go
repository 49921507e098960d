package metrics

// Snapshot is one complete, point-in-time composite of all diagnostic
// fields, plus cloned trend buffers. Produced fresh on every collection;
// never persisted.
type Snapshot struct {
	CPUPercent    float64
	MemoryUsed    uint64
	MemoryTotal   uint64
	MemoryPercent float64
	DiskUsage     []DiskUsage
	LoadAvg       [3]float64
	UptimeSeconds uint64
	ProcessCount  int
	Network       NetworkStats

	CPUHistory     []float64
	MemoryHistory  []float64
	NetworkHistory []NetworkPoint
}

// DiskUsage describes one mounted filesystem.
type DiskUsage struct {
	MountPoint string
	Used       uint64
	Total      uint64
	Percent    float64
}

// NetworkStats holds raw interface counters as reported by the remote
// host. The previous sample is retained per target to compute deltas.
type NetworkStats struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
	Interface   string
}

// NetworkPoint is one network-delta history sample.
type NetworkPoint struct {
	// TimestampMillis is unix milliseconds at sample time.
	TimestampMillis int64
	BytesSent       uint64
	BytesRecv       uint64
}
