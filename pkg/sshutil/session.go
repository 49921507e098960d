// Package sshutil manages the authenticated SSH session to one remote
// host and exposes a single blocking execute-and-capture operation.
package sshutil

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/errors"
	"golang.org/x/crypto/ssh"
)

// DefaultDialTimeout bounds the TCP connect to the remote host.
const DefaultDialTimeout = 10 * time.Second

// Session owns one authenticated SSH transport to one target host.
//
// The transport is not safe for concurrent multi-channel use: Execute
// holds the session mutex for the full round trip, so concurrent callers
// serialize. Fan-out built on top overlaps scheduling only, not the
// actual request/response exchange.
type Session struct {
	mu      sync.Mutex
	client  *ssh.Client
	host    string
	address string
}

// NewSession creates a disconnected session for the given target host.
// The host string is the target identity used by caches and history.
func NewSession(host string) *Session {
	return &Session{host: host}
}

// Connect opens the transport, performs the handshake, and authenticates
// with the profile's configured method. Reconnecting an already-connected
// session requires an explicit Disconnect first.
func (s *Session) Connect(profile config.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return errors.New(errors.ErrConnect,
			fmt.Sprintf("Already connected to '%s'", s.host),
			"Disconnect before reconnecting")
	}

	resolved := resolveSettings(profile.Host, profile.Port, profile.User)
	sshConfig, err := buildClientConfig(profile, resolved)
	if err != nil {
		return err
	}

	address := resolved.address()
	conn, err := net.DialTimeout("tcp", address, DefaultDialTimeout)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConnect,
			fmt.Sprintf("Can't reach '%s' at %s", profile.Host, address),
			suggestionForDialError(err))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, sshConfig)
	if err != nil {
		conn.Close()
		if isAuthError(err) {
			return errors.WrapWithCode(err, errors.ErrAuth,
				fmt.Sprintf("Authentication to '%s' was rejected", profile.Host),
				suggestionForAuth(profile))
		}
		return errors.WrapWithCode(err, errors.ErrConnect,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", profile.Host),
			"Try connecting manually first: ssh "+profile.Host)
	}

	s.client = ssh.NewClient(sshConn, chans, reqs)
	s.address = address
	return nil
}

// Execute runs a command on the remote host and returns the captured
// stdout. The session mutex is held for the whole exchange. The remote
// exit status is not surfaced: output produced by a failing command is
// still returned, which keeps fallback probing cheap. The call fails
// with a channel error only when stdout is empty and stderr had content,
// or when the exchange itself broke.
//
// The context bounds the remote round trip; on expiry the channel is
// torn down and the command abandoned.
func (s *Session) Execute(ctx context.Context, cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return "", errors.New(errors.ErrConnect,
			"Not connected",
			"Connect to a server first")
	}

	session, err := s.client.NewSession()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrChannel,
			"Failed to open SSH channel",
			"Connection may have been closed. Try reconnecting.")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		_ = session.Close()
		return "", errors.WrapWithCode(ctx.Err(), errors.ErrChannel,
			fmt.Sprintf("Command timed out: %s", cmd),
			"The remote host may be overloaded or unreachable")
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if !stderrors.As(err, &exitErr) {
			return "", errors.WrapWithCode(err, errors.ErrChannel,
				fmt.Sprintf("Failed to execute command: %s", cmd),
				"Check if the command exists on the remote host.")
		}
	}

	if stdout.Len() == 0 && stderr.Len() > 0 {
		return "", errors.New(errors.ErrChannel,
			strings.TrimSpace(stderr.String()), "")
	}

	return stdout.String(), nil
}

// Disconnect drops the transport handle. It is idempotent and safe to
// call when already disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
		s.address = ""
	}
}

// IsConnected reports whether an authenticated transport handle exists.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// Host returns the target identity this session is bound to.
func (s *Session) Host() string {
	return s.host
}

// Address returns the resolved host:port, or empty when disconnected.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// buildClientConfig maps the profile's auth method onto SSH auth.
// Exactly one method is configured per profile.
func buildClientConfig(profile config.Profile, resolved *settings) (*ssh.ClientConfig, error) {
	var auth ssh.AuthMethod

	switch profile.Auth.Method {
	case config.AuthPassword:
		auth = ssh.Password(profile.Auth.Password)

	case config.AuthKey:
		keyPath := ExpandPath(profile.Auth.KeyPath)
		if keyPath == "" {
			keyPath = resolved.identityFile
		}
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrAuth,
				fmt.Sprintf("Can't read private key at %s", keyPath),
				"Check the path and file permissions")
		}

		var signer ssh.Signer
		if profile.Auth.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(profile.Auth.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrAuth,
				fmt.Sprintf("Can't parse private key at %s", keyPath),
				"If the key is passphrase protected, set 'auth.passphrase'")
		}
		auth = ssh.PublicKeys(signer)

	default:
		return nil, errors.New(errors.ErrAuth,
			fmt.Sprintf("Unknown auth method '%s'", profile.Auth.Method),
			"Use 'password' or 'key'")
	}

	callback, err := hostKeyCallback()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConnect,
			"Failed to load known_hosts", "")
	}

	return &ssh.ClientConfig{
		User:            resolved.user,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: callback,
		Timeout:         DefaultDialTimeout,
	}, nil
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain")
}

func suggestionForDialError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "Is SSH running on that box? Try: ssh <host>"
	}
	if strings.Contains(msg, "no route to host") || strings.Contains(msg, "network is unreachable") {
		return "Can't route to the host. Check your network connection."
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "i/o timeout") {
		return "Connection timed out. Host might be offline or blocked by a firewall."
	}
	return "Make sure the host is reachable: ping <host>"
}

func suggestionForAuth(profile config.Profile) string {
	if profile.Auth.Method == config.AuthKey {
		return "Check the key is authorized on the server: ssh -i " + profile.Auth.KeyPath + " <host>"
	}
	return "Check the username and password"
}
