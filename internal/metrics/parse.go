package metrics

import (
	"strconv"
	"strings"
)

// The parsers below are deliberately forgiving: remote telemetry is often
// partial or mangled, and a zero default is more useful than an error.

// parseFloat parses a trimmed numeric string, stripping a trailing '%'.
// Returns 0 on any parse failure.
func parseFloat(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseUint parses a trimmed unsigned integer. Returns 0 on failure.
func parseUint(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseMemoryPair parses "used total" byte counts.
func parseMemoryPair(output string) (used, total uint64) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) >= 1 {
		used = parseUint(fields[0])
	}
	if len(fields) >= 2 {
		total = parseUint(fields[1])
	}
	return used, total
}

// parseDiskUsage parses "mount used total percent" lines.
// Malformed lines are skipped; malformed output yields an empty list.
func parseDiskUsage(output string) []DiskUsage {
	var disks []DiskUsage
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		disks = append(disks, DiskUsage{
			MountPoint: fields[0],
			Used:       parseUint(fields[1]),
			Total:      parseUint(fields[2]),
			Percent:    parseFloat(fields[3]),
		})
	}
	return disks
}

// parseLoadAvg parses up to three load average values.
func parseLoadAvg(output string) [3]float64 {
	var load [3]float64
	fields := strings.Fields(strings.TrimSpace(output))
	for i := 0; i < 3 && i < len(fields); i++ {
		load[i] = parseFloat(fields[i])
	}
	return load
}

// parseNetworkCounters parses "bytes_recv packets_recv bytes_sent
// packets_sent" raw counters.
func parseNetworkCounters(output string) NetworkStats {
	var stats NetworkStats
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) >= 1 {
		stats.BytesRecv = parseUint(fields[0])
	}
	if len(fields) >= 2 {
		stats.PacketsRecv = parseUint(fields[1])
	}
	if len(fields) >= 3 {
		stats.BytesSent = parseUint(fields[2])
	}
	if len(fields) >= 4 {
		stats.PacketsSent = parseUint(fields[3])
	}
	return stats
}

// ParseMemory converts a human-readable size string ("1.5GiB", "100MB",
// "2048") to bytes. Binary and decimal suffixes are treated identically
// as binary multiples: GB means the same as GiB. This matches how the
// strings are produced upstream and is kept on purpose; correcting it
// would silently shift recorded values.
func ParseMemory(s string) uint64 {
	s = strings.ToUpper(strings.TrimSpace(s))

	multipliers := []struct {
		suffixes []string
		factor   float64
	}{
		{[]string{"GIB", "GB"}, 1 << 30},
		{[]string{"MIB", "MB"}, 1 << 20},
		{[]string{"KIB", "KB"}, 1 << 10},
	}

	for _, m := range multipliers {
		for _, suffix := range m.suffixes {
			if strings.Contains(s, suffix) {
				value := strings.TrimSpace(strings.ReplaceAll(s, suffix, " "))
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return 0
				}
				return uint64(v * m.factor)
			}
		}
	}

	// No unit: plain bytes, with an optional trailing B.
	value := strings.TrimSpace(strings.ReplaceAll(s, "B", " "))
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return uint64(v)
}
