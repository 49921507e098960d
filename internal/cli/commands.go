package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dockhand/dockhand/internal/app"
	"github.com/dockhand/dockhand/internal/config"
	"github.com/spf13/cobra"
)

var projectsRefresh bool

func init() {
	projectsCmd.Flags().BoolVar(&projectsRefresh, "refresh", false, "discard the cache and rescan")
}

// connectCmd verifies connectivity for a profile and records the time.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Test the connection for a profile",
	Long: `Connect to the profile's server, verify authentication, and record
the connection time in the config file.

Examples:
  dockhand connect
  dockhand connect --profile prod`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, name, err := resolveProfile()
		if err != nil {
			return err
		}

		svc, err := app.New(app.DefaultCacheDir())
		if err != nil {
			return err
		}
		if err := svc.TestConnection(profile); err != nil {
			return err
		}

		saved := cfg.Profiles[name]
		saved.LastConnected = time.Now().UnixMilli()
		cfg.Profiles[name] = saved
		if err := config.Save(cfg, configFlag); err != nil {
			return err
		}

		fmt.Printf("✓ Connected to %s\n", profile.Host)
		return nil
	},
}

// metricsCmd prints one composite metrics snapshot.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Collect one system metrics snapshot",
	Long: `Connect to the profile's server and collect a point-in-time snapshot
of CPU, memory, disk, load, uptime, process count, and network counters.

Examples:
  dockhand metrics
  dockhand metrics --profile prod`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := connectedService()
		if err != nil {
			return err
		}
		defer svc.Disconnect()

		snap, err := svc.GetMetricsSnapshot(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("CPU:       %.1f%%\n", snap.CPUPercent)
		fmt.Printf("Memory:    %.1f%% (%d / %d bytes)\n", snap.MemoryPercent, snap.MemoryUsed, snap.MemoryTotal)
		fmt.Printf("Load:      %.2f %.2f %.2f\n", snap.LoadAvg[0], snap.LoadAvg[1], snap.LoadAvg[2])
		fmt.Printf("Uptime:    %s\n", (time.Duration(snap.UptimeSeconds) * time.Second).String())
		fmt.Printf("Processes: %d\n", snap.ProcessCount)
		if snap.Network.Interface != "" {
			fmt.Printf("Network:   %s rx=%d tx=%d\n", snap.Network.Interface, snap.Network.BytesRecv, snap.Network.BytesSent)
		}
		for _, d := range snap.DiskUsage {
			fmt.Printf("Disk:      %-20s %5.1f%% (%d / %d bytes)\n", d.MountPoint, d.Percent, d.Used, d.Total)
		}
		return nil
	},
}

// projectsCmd lists discovered compose projects.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List docker-compose projects on the server",
	Long: `Discover docker-compose projects on the remote server.

Results are cached for 24 hours per server; a cache hit still re-reads
each known compose file so the service list reflects current content.
Use --refresh to discard the cache and walk the scan roots again.

Examples:
  dockhand projects
  dockhand projects --refresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := connectedService()
		if err != nil {
			return err
		}
		defer svc.Disconnect()

		ctx := context.Background()
		scan := svc.ScanProjects
		if projectsRefresh {
			scan = svc.RefreshProjects
		}
		projects, err := scan(ctx)
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No compose projects found")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %s\n", p.Name, p.Path)
			if len(p.Services) > 0 {
				fmt.Printf("    services: %s\n", strings.Join(p.Services, ", "))
			}
		}
		return nil
	},
}

// execCmd runs one command on the remote server.
var execCmd = &cobra.Command{
	Use:   "exec [command]",
	Short: "Run a command on the server",
	Long: `Execute a command on the remote server and print its output.

Examples:
  dockhand exec "docker ps"
  dockhand exec "uptime"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, err := connectedService()
		if err != nil {
			return err
		}
		defer svc.Disconnect()

		out, err := svc.Exec(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
