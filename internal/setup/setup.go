// Package setup registers the calculator MCP server with desktop MCP clients.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/clinical-calculator-mcp-server/internal/config"
)

// ServerName is the key of the calculator server in the client's mcpServers map.
const ServerName = "clinical-calculator"

// Environment variables written into the client configuration.
const (
	EnvDataDir        = "CALC_DATA_DIR"
	EnvHistoryEnabled = "CALC_HISTORY_ENABLED"
	EnvLogLevel       = "CALC_LOG_LEVEL"
)

// ClaudeDesktopConfig represents the Claude Desktop configuration file structure.
// Keys other than mcpServers are preserved on save.
type ClaudeDesktopConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	extra      map[string]json.RawMessage
}

// MCPServerConfig represents a single MCP server configuration.
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// SetupOptions contains options for the setup process.
type SetupOptions struct {
	BinaryPath     string
	DataDir        string
	DisableHistory bool
	LogLevel       string
	AutoConfirm    bool
}

// GetClaudeDesktopConfigPath returns the path to Claude Desktop's config file.
func GetClaudeDesktopConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "Claude")
			break
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "Claude")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// LoadClaudeDesktopConfig loads a client configuration. A missing file yields an empty one.
func LoadClaudeDesktopConfig(configPath string) (*ClaudeDesktopConfig, error) {
	cfg := &ClaudeDesktopConfig{MCPServers: make(map[string]MCPServerConfig)}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg.extra); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := cfg.extra["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &cfg.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(cfg.extra, "mcpServers")
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]MCPServerConfig)
	}
	return cfg, nil
}

// SaveClaudeDesktopConfig writes the configuration, creating its directory if needed.
func SaveClaudeDesktopConfig(configPath string, cfg *ClaudeDesktopConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := make(map[string]any, len(cfg.extra)+1)
	for k, v := range cfg.extra {
		out[k] = v
	}
	out["mcpServers"] = cfg.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ServerEntry builds the mcpServers entry for the given options.
func ServerEntry(opts SetupOptions) MCPServerConfig {
	entry := MCPServerConfig{
		Command: opts.BinaryPath,
		Env:     make(map[string]string),
	}
	if opts.DataDir != "" {
		entry.Env[EnvDataDir] = opts.DataDir
	}
	if opts.DisableHistory {
		entry.Env[EnvHistoryEnabled] = "false"
	}
	if opts.LogLevel != "" {
		entry.Env[EnvLogLevel] = opts.LogLevel
	}
	return entry
}

// ConfigureClaudeDesktop adds or updates the calculator server in the Claude Desktop config.
func ConfigureClaudeDesktop(opts SetupOptions) error {
	configPath, err := GetClaudeDesktopConfigPath()
	if err != nil {
		return err
	}
	return Configure(configPath, opts)
}

// Configure adds or updates the calculator server in the config file at configPath.
func Configure(configPath string, opts SetupOptions) error {
	cfg, err := LoadClaudeDesktopConfig(configPath)
	if err != nil {
		return err
	}

	if opts.BinaryPath == "" {
		opts.BinaryPath, err = findBinary()
		if err != nil {
			return fmt.Errorf("could not find server binary: %w", err)
		}
	}

	cfg.MCPServers[ServerName] = ServerEntry(opts)
	return SaveClaudeDesktopConfig(configPath, cfg)
}

// findBinary looks for mcp-server-lite on PATH and in common install locations.
func findBinary() (string, error) {
	const binaryName = "mcp-server-lite"

	if path, err := exec.LookPath(binaryName); err == nil {
		return path, nil
	}

	home, _ := os.UserHomeDir()
	locations := []string{
		"./" + binaryName,
		"./bin/" + binaryName,
		filepath.Join(home, ".local", "bin", binaryName),
		filepath.Join(home, "go", "bin", binaryName),
		"/usr/local/bin/" + binaryName,
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			if abs, err := filepath.Abs(loc); err == nil {
				return abs, nil
			}
			return loc, nil
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", binaryName)
}

// Status represents the current setup status.
type Status struct {
	ClientConfigPath string
	Configured       bool
	ServerPath       string
	DataDir          string
	HistoryEnabled   bool
	HistoryDBExists  bool
	Issues           []string
}

// GetStatus inspects the Claude Desktop configuration.
func GetStatus() (*Status, error) {
	configPath, err := GetClaudeDesktopConfigPath()
	if err != nil {
		return &Status{
			DataDir:        GetDefaultDataDir(),
			HistoryEnabled: true,
			Issues:         []string{fmt.Sprintf("Could not determine Claude Desktop config path: %v", err)},
		}, nil
	}
	return StatusAt(configPath), nil
}

// StatusAt inspects the client configuration at configPath.
func StatusAt(configPath string) *Status {
	status := &Status{ClientConfigPath: configPath, HistoryEnabled: true}

	cfg, err := LoadClaudeDesktopConfig(configPath)
	if err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Could not load client config: %v", err))
	} else if entry, ok := cfg.MCPServers[ServerName]; ok {
		status.Configured = true
		status.ServerPath = entry.Command
		status.DataDir = entry.Env[EnvDataDir]
		if entry.Env[EnvHistoryEnabled] == "false" {
			status.HistoryEnabled = false
		}
		if _, err := os.Stat(entry.Command); os.IsNotExist(err) {
			status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found at: %s", entry.Command))
		}
	}

	if status.DataDir == "" {
		status.DataDir = GetDefaultDataDir()
	}
	if _, err := os.Stat(status.DataDir); os.IsNotExist(err) {
		status.Issues = append(status.Issues, fmt.Sprintf("Data directory will be created on first run: %s", status.DataDir))
	}
	lite := config.LiteConfig{DataDir: status.DataDir}
	if _, err := os.Stat(lite.HistoryDBPath()); err == nil {
		status.HistoryDBExists = true
	}

	return status
}

// Validate reports whether the setup at configPath is usable. Issues that only
// concern directories created on first run do not invalidate it.
func Validate(configPath string) (bool, []string) {
	status := StatusAt(configPath)
	issues := status.Issues
	if !status.Configured {
		issues = append(issues, "Calculator server not configured in Claude Desktop")
		return false, issues
	}

	if info, err := os.Stat(status.ServerPath); err == nil && info.Mode()&0111 == 0 {
		issues = append(issues, fmt.Sprintf("Server binary is not executable: %s", status.ServerPath))
	}

	return allWarnings(issues), issues
}

func allWarnings(issues []string) bool {
	for _, issue := range issues {
		if !strings.Contains(issue, "will be created") {
			return false
		}
	}
	return true
}

// GetDefaultDataDir returns the default data directory path.
func GetDefaultDataDir() string {
	return config.DefaultLiteConfig().DataDir
}

// EnsureDataDir creates the data directory and its exports subdirectory.
func EnsureDataDir(dataDir string) error {
	if dataDir == "" {
		dataDir = GetDefaultDataDir()
	}
	lite := config.LiteConfig{DataDir: dataDir}
	if err := lite.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
