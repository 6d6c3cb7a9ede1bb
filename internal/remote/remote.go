// Package remote fetches a mount table from another host over SSH,
// using SFTP to stream the file.
package remote

import (
	"fmt"
	"io"
	"net"
	"os"
	"regexp"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/kriansa/mounttab/internal/log"
)

const (
	// DefaultPort is the SSH port used when the target does not name one
	DefaultPort = "22"

	dialTimeout = 10 * time.Second
)

// targetPattern matches user@host[:port]: a user name, an @, a host
// name or address, and an optional numeric port.
var targetPattern = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9_.-]*)@([a-zA-Z0-9][a-zA-Z0-9.-]*)(?::([0-9]+))?$`)

// Target identifies a remote host to read the mount table from.
type Target struct {
	User string
	Host string
	Port string
}

// ParseTarget parses a user@host[:port] spec into a Target.
func ParseTarget(spec string) (Target, error) {
	groups := targetPattern.FindStringSubmatch(spec)
	if groups == nil {
		return Target{}, fmt.Errorf("invalid target %q, expected user@host[:port]", spec)
	}

	target := Target{User: groups[1], Host: groups[2], Port: groups[3]}
	if target.Port == "" {
		target.Port = DefaultPort
	}
	return target, nil
}

// Addr returns the host:port dial address for the target.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, t.Port)
}

// Open connects to the target and opens path over SFTP. The identity
// file holds the SSH private key. When knownHosts names a known_hosts
// file the server's host key is verified against it; otherwise the key
// is accepted without verification. Closing the returned stream tears
// down the SFTP session and the SSH connection.
func Open(target Target, identity, knownHosts, path string) (io.ReadCloser, error) {
	key, err := os.ReadFile(identity)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", identity, err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if knownHosts != "" {
		hostKeyCallback, err = knownhosts.New(knownHosts)
		if err != nil {
			return nil, fmt.Errorf("load known hosts %s: %w", knownHosts, err)
		}
	}

	config := &ssh.ClientConfig{
		User:            target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}

	log.Debug("dialing ssh", "addr", target.Addr(), "user", target.User)

	conn, err := ssh.Dial("tcp", target.Addr(), config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target.Addr(), err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create sftp client: %w", err)
	}

	file, err := client.Open(path)
	if err != nil {
		_ = client.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("open remote %s: %w", path, err)
	}

	log.Debug("opened remote mount table", "addr", target.Addr(), "path", path)

	return &stream{file: file, client: client, conn: conn}, nil
}

// stream is an open remote file plus the sessions that carry it.
type stream struct {
	file   *sftp.File
	client *sftp.Client
	conn   *ssh.Client
}

func (s *stream) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

// Close closes the file, the SFTP session and the SSH connection,
// returning the first error encountered.
func (s *stream) Close() error {
	var first error
	for _, c := range []io.Closer{s.file, s.client, s.conn} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
