package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sshtest "github.com/dockhand/dockhand/pkg/sshutil/testing"
)

func newScriptedRunner(host string) *sshtest.MockRunner {
	mock := sshtest.NewMockRunner(host)
	mock.Respond(cmdCPU, "23.5\n")
	mock.Respond(cmdMemory, "4294967296 8589934592\n")
	mock.Respond(cmdDisk, "/ 10737418240 107374182400 10%\n")
	mock.Respond(cmdLoadAvg, "0.52 0.58 0.59\n")
	mock.Respond(cmdUptime, "86400\n")
	mock.Respond(cmdProcessCount, "142\n")
	mock.Respond(cmdNetwork, "1000 10 2000 20\n")
	mock.Respond(cmdInterface, "eth0\n")
	return mock
}

func TestCollectBuildsSnapshot(t *testing.T) {
	mock := newScriptedRunner("server1")
	c := NewCollector(mock)

	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 23.5, snap.CPUPercent)
	assert.Equal(t, uint64(4294967296), snap.MemoryUsed)
	assert.Equal(t, uint64(8589934592), snap.MemoryTotal)
	assert.Equal(t, 50.0, snap.MemoryPercent)
	require.Len(t, snap.DiskUsage, 1)
	assert.Equal(t, "/", snap.DiskUsage[0].MountPoint)
	assert.Equal(t, [3]float64{0.52, 0.58, 0.59}, snap.LoadAvg)
	assert.Equal(t, uint64(86400), snap.UptimeSeconds)
	assert.Equal(t, 142, snap.ProcessCount)
	assert.Equal(t, "eth0", snap.Network.Interface)
	assert.Equal(t, uint64(1000), snap.Network.BytesRecv)
	assert.Equal(t, uint64(2000), snap.Network.BytesSent)

	// Every probe ran exactly once.
	assert.Len(t, mock.Calls(), commandCount)
}

func TestCollectDegradesFailedCommands(t *testing.T) {
	mock := newScriptedRunner("server1")
	mock.RespondErr(cmdDisk, errors.New("df: command not found"))
	mock.Respond(cmdCPU, "not a number\n")

	c := NewCollector(mock)
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.DiskUsage)
	assert.Zero(t, snap.CPUPercent)
	// Unrelated fields still populate.
	assert.Equal(t, 50.0, snap.MemoryPercent)
	assert.Equal(t, 142, snap.ProcessCount)
}

func TestCollectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(newScriptedRunner("server1"))
	_, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectFirstNetworkSampleIsZeroDelta(t *testing.T) {
	c := NewCollector(newScriptedRunner("server1"))

	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.NetworkHistory, 1)
	assert.Zero(t, snap.NetworkHistory[0].BytesSent)
	assert.Zero(t, snap.NetworkHistory[0].BytesRecv)
}

func TestCollectNetworkDeltaBetweenSamples(t *testing.T) {
	mock := newScriptedRunner("server1")
	c := NewCollector(mock)

	_, err := c.Collect(context.Background())
	require.NoError(t, err)

	mock.Respond(cmdNetwork, "1500 15 2600 26\n")
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.NetworkHistory, 2)
	last := snap.NetworkHistory[1]
	assert.Equal(t, uint64(500), last.BytesRecv)
	assert.Equal(t, uint64(600), last.BytesSent)
}

func TestCollectCounterResetClampsToZero(t *testing.T) {
	mock := newScriptedRunner("server1")
	c := NewCollector(mock)

	_, err := c.Collect(context.Background())
	require.NoError(t, err)

	// Counters went backwards, as after a remote reboot.
	mock.Respond(cmdNetwork, "100 1 200 2\n")
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	last := snap.NetworkHistory[len(snap.NetworkHistory)-1]
	assert.Zero(t, last.BytesRecv)
	assert.Zero(t, last.BytesSent)
}

func TestResetNetworkForgetsStoredSample(t *testing.T) {
	mock := newScriptedRunner("server1")
	c := NewCollector(mock)

	_, err := c.Collect(context.Background())
	require.NoError(t, err)

	c.ResetNetwork("server1")

	mock.Respond(cmdNetwork, "9000 90 9000 90\n")
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	last := snap.NetworkHistory[len(snap.NetworkHistory)-1]
	assert.Zero(t, last.BytesRecv)
	assert.Zero(t, last.BytesSent)
}

func TestCollectAppendsHistoryAcrossCalls(t *testing.T) {
	mock := newScriptedRunner("server1")
	c := NewCollector(mock)

	for i := 0; i < 3; i++ {
		_, err := c.Collect(context.Background())
		require.NoError(t, err)
	}

	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.CPUHistory, 4)
	assert.Len(t, snap.MemoryHistory, 4)
	assert.Len(t, snap.NetworkHistory, 4)
}

func TestCollectSnapshotHistoryIsACopy(t *testing.T) {
	c := NewCollector(newScriptedRunner("server1"))

	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	snap.CPUHistory[0] = -1
	assert.Equal(t, 23.5, c.History().CPU()[0])
}
