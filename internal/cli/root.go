// Package cli implements the dockhand command-line interface.
package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/dockhand/dockhand/internal/app"
	"github.com/dockhand/dockhand/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	configFlag  string
	profileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "dockhand",
	Short: "Manage a remote Docker host over SSH",
	Long: `dockhand holds one authenticated SSH session to a remote server and
uses it to collect system metrics snapshots and discover docker-compose
projects, caching discovery results between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/dockhand/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "server profile to use")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveProfile loads the config and picks the requested (or default)
// profile, prompting for a password when the profile needs one and none
// is stored.
func resolveProfile() (*config.Config, config.Profile, string, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, config.Profile{}, "", err
	}

	profile, name, err := cfg.Resolve(profileFlag)
	if err != nil {
		return nil, config.Profile{}, "", err
	}

	if profile.Auth.Method == config.AuthPassword && profile.Auth.Password == "" {
		password, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", profile.User, profile.Host))
		if err != nil {
			return nil, config.Profile{}, "", err
		}
		profile.Auth.Password = password
	}

	return cfg, profile, name, nil
}

// connectedService builds the service and opens the session for the
// resolved profile. The caller must Disconnect.
func connectedService() (*app.Service, *config.Config, string, error) {
	cfg, profile, name, err := resolveProfile()
	if err != nil {
		return nil, nil, "", err
	}

	svc, err := app.New(app.DefaultCacheDir())
	if err != nil {
		return nil, nil, "", err
	}

	if err := svc.Connect(profile); err != nil {
		return nil, nil, "", err
	}

	return svc, cfg, name, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
