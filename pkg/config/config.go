package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	NodeID        string `yaml:"node_id"`
	RaftAddr      string `yaml:"raft_addr"`
	RaftData      string `yaml:"raft_data"`
	RaftBootstrap bool   `yaml:"raft_bootstrap"`
	JoinAddr      string `yaml:"join_addr"`
	GRPCAddr      string `yaml:"grpc_addr"`
	HTTPAddr      string `yaml:"http_addr"`
	LogLevel      string `yaml:"log_level"`
	SeedFile      string `yaml:"seed_file"`
}

// Replicated reports whether the node runs behind Raft.
func (c *Config) Replicated() bool {
	return c.RaftAddr != ""
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise it falls back to environment variables. Environment variables
// override file values either way.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			// If path was explicitly provided but file doesn't exist, return error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return fmt.Errorf("HTTP_ADDR or GRPC_ADDR is required (set via environment or config file)")
	}
	if c.Replicated() && c.NodeID == "" {
		return fmt.Errorf("NODE_ID is required when RAFT_ADDR is set")
	}
	if c.RaftBootstrap && c.JoinAddr != "" {
		return fmt.Errorf("RAFT_BOOTSTRAP and JOIN_ADDR are mutually exclusive")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Replicated() && cfg.RaftData == "" {
		cfg.RaftData = fmt.Sprintf("./pyaz/%s", cfg.NodeID)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	for env, dst := range map[string]*string{
		"NODE_ID":   &cfg.NodeID,
		"RAFT_ADDR": &cfg.RaftAddr,
		"RAFT_DATA": &cfg.RaftData,
		"JOIN_ADDR": &cfg.JoinAddr,
		"GRPC_ADDR": &cfg.GRPCAddr,
		"HTTP_ADDR": &cfg.HTTPAddr,
		"LOG_LEVEL": &cfg.LogLevel,
		"SEED_FILE": &cfg.SeedFile,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("RAFT_BOOTSTRAP"); v != "" {
		bootstrap, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RAFT_BOOTSTRAP value: %w", err)
		}
		cfg.RaftBootstrap = bootstrap
	}
	return nil
}
