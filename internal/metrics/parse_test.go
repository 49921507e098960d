package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"23.5", 23.5},
		{"23.5%", 23.5},
		{"  42.0  \n", 42.0},
		{"0", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFloat(tt.input), "input %q", tt.input)
	}
}

func TestParseMemoryPair(t *testing.T) {
	used, total := parseMemoryPair("4294967296 8589934592\n")
	assert.Equal(t, uint64(4294967296), used)
	assert.Equal(t, uint64(8589934592), total)

	used, total = parseMemoryPair("")
	assert.Zero(t, used)
	assert.Zero(t, total)

	used, total = parseMemoryPair("1024")
	assert.Equal(t, uint64(1024), used)
	assert.Zero(t, total)
}

func TestParseDiskUsage(t *testing.T) {
	output := "/ 10737418240 107374182400 10%\n/home 53687091200 107374182400 50%\n"

	disks := parseDiskUsage(output)
	assert.Len(t, disks, 2)
	assert.Equal(t, "/", disks[0].MountPoint)
	assert.Equal(t, uint64(10737418240), disks[0].Used)
	assert.Equal(t, uint64(107374182400), disks[0].Total)
	assert.Equal(t, 10.0, disks[0].Percent)
	assert.Equal(t, "/home", disks[1].MountPoint)
	assert.Equal(t, 50.0, disks[1].Percent)
}

func TestParseDiskUsageMalformed(t *testing.T) {
	assert.Empty(t, parseDiskUsage("total garbage"))
	assert.Empty(t, parseDiskUsage(""))

	// Malformed lines are skipped, valid ones kept.
	disks := parseDiskUsage("nonsense\n/ 1 2 50%\n")
	assert.Len(t, disks, 1)
	assert.Equal(t, "/", disks[0].MountPoint)
}

func TestParseLoadAvg(t *testing.T) {
	load := parseLoadAvg("0.52 0.58 0.59\n")
	assert.Equal(t, [3]float64{0.52, 0.58, 0.59}, load)

	load = parseLoadAvg("1.00")
	assert.Equal(t, [3]float64{1.00, 0, 0}, load)

	load = parseLoadAvg("")
	assert.Equal(t, [3]float64{0, 0, 0}, load)
}

func TestParseNetworkCounters(t *testing.T) {
	stats := parseNetworkCounters("1000 10 2000 20\n")
	assert.Equal(t, uint64(1000), stats.BytesRecv)
	assert.Equal(t, uint64(10), stats.PacketsRecv)
	assert.Equal(t, uint64(2000), stats.BytesSent)
	assert.Equal(t, uint64(20), stats.PacketsSent)

	stats = parseNetworkCounters("")
	assert.Zero(t, stats.BytesRecv)
	assert.Zero(t, stats.BytesSent)
}

func TestParseMemory(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{"1.5GiB", 1610612736},
		{"1.5GB", 1610612736}, // decimal suffix parsed as binary
		{"100MiB", 104857600},
		{"100MB", 104857600},
		{"512KiB", 524288},
		{"512KB", 524288},
		{"2048", 2048},
		{"2048B", 2048},
		{"  1GiB  ", 1 << 30},
		{"", 0},
		{"junk", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMemory(tt.input))
		})
	}
}
