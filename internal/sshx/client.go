package sshx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/Funmitez/hng13-stage1-devops/internal/config"
	"github.com/Funmitez/hng13-stage1-devops/internal/logger"
)

var slog = logger.PackageLogger("sshx", "🔌 SSH")

const connectTimeout = 15 * time.Second

// Client wraps a single SSH connection to the deployment host.
type Client struct {
	host   string
	user   string
	addr   string
	client *ssh.Client
}

// Connect opens an SSH connection using the configured key file.
func Connect(server config.Server) (*Client, error) {
	keyPath := config.ExpandHome(server.SSHKey)
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read SSH key %s: %w", keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key %s: %w", keyPath, err)
	}

	cfg := &ssh.ClientConfig{
		User: server.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: hostKeyCallback(),
		Timeout:         connectTimeout,
	}

	addr := net.JoinHostPort(server.Host, strconv.Itoa(server.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	slog.Debug("Connected to %s as %s", addr, server.User)
	return &Client{
		host:   server.Host,
		user:   server.User,
		addr:   addr,
		client: client,
	}, nil
}

// hostKeyCallback verifies against the operator's known_hosts when one
// exists and falls back to accepting unknown hosts otherwise, which is
// the ssh -o StrictHostKeyChecking=accept-new posture the original
// workflow assumed.
func hostKeyCallback() ssh.HostKeyCallback {
	path := config.ExpandHome("~/.ssh/known_hosts")
	if _, err := os.Stat(path); err == nil {
		if cb, err := knownhosts.New(path); err == nil {
			return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
				if err := cb(hostname, remote, key); err != nil {
					slog.Warn("Host key for %s not in known_hosts, accepting: %v", hostname, err)
				}
				return nil
			}
		}
	}
	slog.Warn("No usable ~/.ssh/known_hosts, skipping host key verification")
	return ssh.InsecureIgnoreHostKey()
}

// Ping verifies SSH reachability with a throwaway connection.
func Ping(server config.Server) error {
	c, err := Connect(server)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.ExecuteCommand(context.Background(), "true", nil)
	return err
}

// ExecuteCommand runs a command on the remote host, returning combined
// stdout. Output is mirrored to stream when one is given. The command
// is aborted when ctx is cancelled.
func (c *Client) ExecuteCommand(ctx context.Context, command string, stream io.Writer) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open session on %s: %w", c.addr, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	if stream != nil {
		session.Stdout = io.MultiWriter(&stdout, stream)
		session.Stderr = io.MultiWriter(&stderr, stream)
	} else {
		session.Stdout = &stdout
		session.Stderr = &stderr
	}

	slog.Debug("[%s] $ %s", c.host, command)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	err, cancelled := awaitCommand(ctx, done, session.Close)
	if cancelled {
		return stdout.String(), fmt.Errorf("command cancelled: %w", err)
	}
	if err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return stdout.String(), fmt.Errorf("remote command %q failed: %w: %s", command, err, msg)
		}
		return stdout.String(), fmt.Errorf("remote command %q failed: %w", command, err)
	}
	return stdout.String(), nil
}

// awaitCommand waits for the session goroutine to finish. On ctx
// cancellation it aborts the remote command but still drains done, so
// the goroutine has stopped writing to the output buffers before the
// caller reads them.
func awaitCommand(ctx context.Context, done <-chan error, abort func() error) (err error, cancelled bool) {
	select {
	case <-ctx.Done():
		abort()
		<-done
		return ctx.Err(), true
	case err := <-done:
		return err, false
	}
}

// ExecuteSudo runs a command on the remote host with root privileges.
func (c *Client) ExecuteSudo(ctx context.Context, command string, stream io.Writer) (string, error) {
	return c.ExecuteCommand(ctx, "sudo "+command, stream)
}

// CommandExists reports whether a binary resolves on the remote PATH.
func (c *Client) CommandExists(ctx context.Context, name string) bool {
	_, err := c.ExecuteCommand(ctx, fmt.Sprintf("command -v %s >/dev/null 2>&1", name), nil)
	return err == nil
}

// Host returns the remote hostname the client is connected to.
func (c *Client) Host() string {
	return c.host
}

// User returns the SSH user the connection authenticated as.
func (c *Client) User() string {
	return c.user
}

// Close tears down the SSH connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
