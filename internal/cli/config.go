package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the on-disk CLI configuration, read from
// ~/.config/lspgraph/config.toml.
//
// Example:
//
//	default_server = "rust"
//
//	[servers.rust]
//	command = "rust-analyzer"
//	extensions = ["rs"]
//
//	[servers.go]
//	command = "gopls"
//	args = ["serve"]
//	extensions = ["go"]
//
//	[layout]
//	spring_length = 50.0
//	threshold = 0.1
//	max_iterations = 50000
//
//	[serve]
//	addr = ":8080"
//	mongo_url = "mongodb://localhost:27017"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	DefaultServer string                  `toml:"default_server"`
	Servers       map[string]ServerConfig `toml:"servers"`
	Layout        LayoutConfig            `toml:"layout"`
	Serve         ServeConfig             `toml:"serve"`
}

// ServerConfig describes one language server.
type ServerConfig struct {
	Command    string   `toml:"command"`
	Args       []string `toml:"args"`
	Extensions []string `toml:"extensions"`
}

// LayoutConfig overrides the built-in layout defaults. Zero values
// leave the defaults untouched.
type LayoutConfig struct {
	SpringLength  float64 `toml:"spring_length"`
	Threshold     float64 `toml:"threshold"`
	MaxIterations int     `toml:"max_iterations"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr     string `toml:"addr"`
	MongoURL string `toml:"mongo_url"`
	RedisURL string `toml:"redis_url"`
}

// defaultConfig returns the built-in configuration used when no config
// file exists. rust-analyzer is preconfigured since Rust workspaces are
// the primary target.
func defaultConfig() Config {
	return Config{
		DefaultServer: "rust",
		Servers: map[string]ServerConfig{
			"rust": {
				Command:    "rust-analyzer",
				Extensions: []string{"rs"},
			},
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// loadConfig reads the config file if it exists, falling back to the
// built-in defaults. A present but malformed file is an error; a
// missing file is not.
func loadConfig() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFile(filepath.Join(dir, configFile))
}

func loadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	// User-defined servers extend the defaults, matching keys override.
	var fileCfg Config
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fileCfg.DefaultServer != "" {
		cfg.DefaultServer = fileCfg.DefaultServer
	}
	for name, sc := range fileCfg.Servers {
		cfg.Servers[name] = sc
	}
	cfg.Layout = fileCfg.Layout
	if fileCfg.Serve.Addr != "" {
		cfg.Serve.Addr = fileCfg.Serve.Addr
	}
	cfg.Serve.MongoURL = fileCfg.Serve.MongoURL
	cfg.Serve.RedisURL = fileCfg.Serve.RedisURL
	return cfg, nil
}

// serverFor resolves a named server entry. An empty name selects the
// configured default.
func (c Config) serverFor(name string) (ServerConfig, error) {
	if name == "" {
		name = c.DefaultServer
	}
	sc, ok := c.Servers[name]
	if !ok {
		return ServerConfig{}, fmt.Errorf("unknown server %q (configured: %s)", name, strings.Join(c.serverNames(), ", "))
	}
	if sc.Command == "" {
		return ServerConfig{}, fmt.Errorf("server %q has no command configured", name)
	}
	return sc, nil
}

// applyLayoutConfig fills layout options from the config file for
// flags the user did not set on the command line.
func applyLayoutConfig(cmd *cobra.Command, opts *pipeline.Options, lc LayoutConfig) {
	if lc.SpringLength > 0 && !cmd.Flags().Changed("spring-length") {
		opts.SpringLength = lc.SpringLength
	}
	if lc.Threshold > 0 && !cmd.Flags().Changed("threshold") {
		opts.Threshold = lc.Threshold
	}
	if lc.MaxIterations > 0 && !cmd.Flags().Changed("max-iterations") {
		opts.MaxIterations = lc.MaxIterations
	}
}

func (c Config) serverNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
