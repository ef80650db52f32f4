package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"go.tigermatt.uk/indicator/internal/config"
)

// SSH runs commands on a host with public-key auth, retrying failed
// connections.
type SSH struct {
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	Log       *zap.SugaredLogger

	// run performs one attempt; tests replace it.
	run func(ctx context.Context, h config.HostConfig, command string) (string, error)
}

func NewSSH(m config.MonitorConfig, log *zap.SugaredLogger) *SSH {
	s := &SSH{
		Timeout:   m.ConnectTimeout(),
		Retries:   m.Retries,
		RetryWait: m.RetryWait(),
		Log:       log,
	}
	s.run = s.runOnce
	return s
}

// Exec returns stdout followed by stderr. A command exiting non-zero is not an
// error; smartctl reports findings through its exit status.
func (s *SSH) Exec(ctx context.Context, h config.HostConfig, command string) (string, error) {
	retries := s.Retries
	if retries < 1 {
		retries = 1
	}

	var last error
	for attempt := 1; attempt <= retries; attempt++ {
		out, err := s.run(ctx, h, command)
		if err == nil {
			return out, nil
		}
		last = err

		s.Log.Warnw("ssh attempt failed", "host", h.Name, "attempt", attempt, "of", retries, "err", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < retries {
			if err := sleep(ctx, s.RetryWait); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("ssh %s: giving up after %d attempts: %w", h.Name, retries, last)
}

func (s *SSH) runOnce(ctx context.Context, h config.HostConfig, command string) (string, error) {
	cfg, err := s.clientConfig(h)
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(h.Host, strconv.Itoa(h.Port))

	d := net.Dialer{Timeout: s.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("dialing %s: %w", addr, err)
	}

	// The handshake has no context of its own.
	_ = conn.SetDeadline(time.Now().Add(s.Timeout))
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()

	sess, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("opening session: %w", err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	if err := sess.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("running %q: %w", command, err)
		}
		s.Log.Debugw("remote command exited non-zero", "host", h.Name, "status", exitErr.ExitStatus())
	}

	if e := stderr.String(); e != "" && !strings.Contains(e, "sudoers") && !strings.Contains(e, "WARNING") {
		s.Log.Warnw("remote stderr", "host", h.Name, "stderr", strings.TrimSpace(e))
	}

	return stdout.String() + stderr.String(), nil
}

func (s *SSH) clientConfig(h config.HostConfig) (*ssh.ClientConfig, error) {
	key, err := os.ReadFile(h.SSHKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading ssh key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parsing ssh key %s: %w", h.SSHKeyPath, err)
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if h.KnownHosts != "" {
		if hostKey, err = knownhosts.New(h.KnownHosts); err != nil {
			return nil, fmt.Errorf("loading known_hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            h.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKey,
		Timeout:         s.Timeout,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
