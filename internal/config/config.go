// Package config loads the optional code-graph.toml project configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// MCPConfig holds server/tool-layer defaults.
type MCPConfig struct {
	DefaultLimit        int    `toml:"default_limit"`
	DefaultSections     string `toml:"default_sections"`
	SuppressSummaryLine bool   `toml:"suppress_summary_line"`
}

// Config is the decoded form of code-graph.toml.
type Config struct {
	MCP     MCPConfig `toml:"mcp"`
	Exclude []string  `toml:"exclude"`
}

// FileName is the configuration file name searched for at a project root.
const FileName = "code-graph.toml"

// Load reads <dir>/code-graph.toml. A missing file is not an error: it
// returns the zero-value Config with defaults applied.
func Load(dir string) (Config, error) {
	cfg := Config{MCP: MCPConfig{DefaultLimit: 20}}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.MCP.DefaultLimit == 0 {
		cfg.MCP.DefaultLimit = 20
	}
	return cfg, nil
}
