package metrics

// The fixed set of read-only diagnostic commands issued for one snapshot.
// Each is independent and cheap; failures degrade the matching field to
// its zero value rather than failing the snapshot.
const (
	// cmdCPU prints the user CPU percentage from the top summary line.
	cmdCPU = `top -bn1 | grep 'Cpu(s)' | awk '{print $2}' | cut -d'%' -f1`

	// cmdMemory prints "used total" in bytes.
	cmdMemory = `free -b | grep Mem | awk '{print $3,$2}'`

	// cmdDisk prints "mount used total percent" per real filesystem.
	cmdDisk = `df -B1 | tail -n +2 | awk '{print $6,$3,$2,$5}' | grep -E '^/'`

	// cmdLoadAvg prints the three load averages.
	cmdLoadAvg = `cat /proc/loadavg | awk '{print $1,$2,$3}'`

	// cmdUptime prints whole uptime seconds.
	cmdUptime = `cat /proc/uptime | awk '{print int($1)}'`

	// cmdProcessCount prints the process count (plus the ps header line).
	cmdProcessCount = `ps aux | wc -l`

	// cmdNetwork prints "bytes_recv packets_recv bytes_sent packets_sent"
	// for the first physical-looking interface.
	cmdNetwork = `cat /proc/net/dev | grep -E '^\s*(eth|en|wl)' | head -n 1 | awk -F: '{print $2}' | awk '{print $1,$2,$9,$10}'`

	// cmdInterface prints the name of the default-route interface.
	cmdInterface = `ip route | grep default | awk '{print $5}' | head -n 1`
)
