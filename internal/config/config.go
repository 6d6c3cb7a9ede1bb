package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kriansa/mounttab/internal/remote"
)

const (
	// DefaultConfigPath is the default location for the config file
	DefaultConfigPath = "/etc/mounttab.conf"
	// DefaultMountsFile is the mount table the kernel exposes
	DefaultMountsFile = "/proc/mounts"
)

// Config holds the tool configuration
type Config struct {
	// File is the mount table file to read
	File string `toml:"file"`
	// Host is an optional user@host[:port] to read the table from over SSH
	Host string `toml:"host"`
	// Identity is the SSH private key file, required when Host is set
	Identity string `toml:"identity"`
	// KnownHosts is an optional known_hosts file for host key verification
	KnownHosts string `toml:"known_hosts"`
}

// Load loads configuration from a TOML file
// Returns an empty config if the file doesn't exist
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Merge merges CLI flags into the config, with CLI flags taking precedence
// over config file values. Empty CLI values are ignored.
func (c *Config) Merge(file, host, identity, knownHosts string) {
	if file != "" {
		c.File = file
	}
	if host != "" {
		c.Host = host
	}
	if identity != "" {
		c.Identity = identity
	}
	if knownHosts != "" {
		c.KnownHosts = knownHosts
	}
}

// ApplyDefaults applies default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.File == "" {
		c.File = DefaultMountsFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Host != "" {
		if _, err := remote.ParseTarget(c.Host); err != nil {
			return err
		}
		if c.Identity == "" {
			return fmt.Errorf("an identity file is required to read from a remote host (use --identity or set 'identity' in config file)")
		}
	}

	if c.Host == "" && c.Identity != "" {
		return fmt.Errorf("identity file given without a remote host (use --host or set 'host' in config file)")
	}

	return nil
}
