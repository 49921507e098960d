package sshutil

import "context"

// Runner defines the interface for remote command execution.
// Both the real Session and mock implementations satisfy this interface,
// which lets the metrics collector and discovery scanner be tested
// without a live SSH connection.
type Runner interface {
	// Execute runs a command on the remote host and returns the captured
	// stdout. A non-zero exit status with non-empty stdout is not an
	// error: many probes emit useful text and still exit loudly. An
	// error is returned only when the command produced no stdout and
	// stderr had content, or when the exchange itself failed.
	Execute(ctx context.Context, cmd string) (string, error)

	// Host returns the target identity the runner is bound to.
	Host() string
}
