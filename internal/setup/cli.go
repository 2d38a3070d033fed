package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// CLI runs the interactive setup commands.
type CLI struct {
	configPath string
	in         *bufio.Reader
	out        io.Writer
}

// NewCommand returns the setup command tree. configPath overrides the detected
// Claude Desktop config location when non-empty.
func NewCommand(configPath string) *cobra.Command {
	c := &CLI{configPath: configPath}

	root := &cobra.Command{
		Use:   "setup",
		Short: "Register the calculator server with Claude Desktop",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.in = bufio.NewReader(cmd.InOrStdin())
			c.out = cmd.OutOrStdout()
			if c.configPath == "" {
				path, err := GetClaudeDesktopConfigPath()
				if err != nil {
					return err
				}
				c.configPath = path
			}
			return nil
		},
	}

	var opts SetupOptions
	desktop := &cobra.Command{
		Use:   "claude-desktop",
		Short: "Add or update the server entry in the Claude Desktop config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.configure(opts)
		},
	}
	desktop.Flags().StringVarP(&opts.BinaryPath, "binary", "b", "", "path to mcp-server-lite (default: this executable)")
	desktop.Flags().StringVarP(&opts.DataDir, "data-dir", "d", "", "data directory for history and exports")
	desktop.Flags().BoolVar(&opts.DisableHistory, "no-history", false, "do not record evaluations")
	desktop.Flags().StringVar(&opts.LogLevel, "log-level", "", "server log level")
	desktop.Flags().BoolVarP(&opts.AutoConfirm, "yes", "y", false, "skip the confirmation prompt")

	root.AddCommand(
		desktop,
		&cobra.Command{
			Use:   "status",
			Short: "Show the current setup status",
			RunE:  func(*cobra.Command, []string) error { return c.status() },
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the current configuration",
			RunE:  func(*cobra.Command, []string) error { return c.validate() },
		},
		&cobra.Command{
			Use:   "wizard",
			Short: "Interactive setup wizard",
			RunE:  func(*cobra.Command, []string) error { return c.wizard() },
		},
	)
	return root
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) ask(prompt, def string) string {
	if def != "" {
		c.printf("%s [%s]: ", prompt, def)
	} else {
		c.printf("%s: ", prompt)
	}
	line, _ := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func (c *CLI) confirm(prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer := strings.ToLower(c.ask(prompt+" ["+hint+"]", ""))
	if answer == "" {
		return def
	}
	return answer == "y" || answer == "yes"
}

func (c *CLI) configure(opts SetupOptions) error {
	if opts.BinaryPath == "" {
		if exe, err := os.Executable(); err == nil {
			opts.BinaryPath = exe
		}
	}

	c.printf("%s\n", titleStyle.Render("Claude Desktop Configuration"))
	c.printf("Config file:   %s\n", c.configPath)
	c.printf("Server binary: %s\n", opts.BinaryPath)
	if opts.DataDir != "" {
		c.printf("Data dir:      %s\n", opts.DataDir)
	}
	c.printf("History:       %t\n\n", !opts.DisableHistory)

	if !opts.AutoConfirm && !c.confirm("Proceed with configuration?", true) {
		c.printf("Configuration cancelled.\n")
		return nil
	}

	if err := Configure(c.configPath, opts); err != nil {
		return fmt.Errorf("failed to configure Claude Desktop: %w", err)
	}
	c.printf("\n%s\n\n", okStyle.Render("✓ Claude Desktop configured"))
	c.printf("Restart Claude Desktop, then try: \"Calculate CURB-65 for a confused 70 year old\"\n")
	return nil
}

func (c *CLI) status() error {
	s := StatusAt(c.configPath)

	mark := func(ok bool) string {
		if ok {
			return okStyle.Render("✓")
		}
		return warnStyle.Render("✗")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Clinical Calculator MCP Server"))
	fmt.Fprintf(&b, "%s client config  %s\n", mark(s.Configured), s.ClientConfigPath)
	if s.Configured {
		fmt.Fprintf(&b, "%s server binary  %s\n", mark(len(s.ServerPath) > 0 && fileExists(s.ServerPath)), s.ServerPath)
	}
	fmt.Fprintf(&b, "%s data directory %s\n", mark(fileExists(s.DataDir)), s.DataDir)
	fmt.Fprintf(&b, "%s history        enabled=%t database=%t", mark(s.HistoryEnabled), s.HistoryEnabled, s.HistoryDBExists)
	c.printf("%s\n", boxStyle.Render(b.String()))

	for _, issue := range s.Issues {
		c.printf("%s %s\n", warnStyle.Render("⚠"), issue)
	}
	return nil
}

func (c *CLI) validate() error {
	valid, issues := Validate(c.configPath)
	if valid {
		c.printf("%s\n", okStyle.Render("✓ Configuration is valid"))
	} else {
		c.printf("%s\n", warnStyle.Render("✗ Configuration has issues:"))
	}
	for _, issue := range issues {
		c.printf("  - %s\n", issue)
	}
	if !valid {
		return fmt.Errorf("configuration invalid")
	}
	return nil
}

func (c *CLI) wizard() error {
	c.printf("%s\n\n", boxStyle.Render(titleStyle.Render("Clinical Calculator MCP Server Setup")))

	if s := StatusAt(c.configPath); s.Configured {
		c.printf("%s\n", okStyle.Render("✓ Claude Desktop is already configured"))
		if !c.confirm("Reconfigure?", false) {
			return nil
		}
	}

	exe, _ := os.Executable()
	opts := SetupOptions{
		BinaryPath:  c.ask("Server binary path", exe),
		DataDir:     c.ask("Data directory", GetDefaultDataDir()),
		AutoConfirm: true,
	}
	if !fileExists(opts.BinaryPath) {
		c.printf("%s binary not found at %s\n", warnStyle.Render("⚠"), opts.BinaryPath)
		if !c.confirm("Continue anyway?", false) {
			return fmt.Errorf("setup cancelled")
		}
	}
	opts.DisableHistory = !c.confirm("Record evaluations in local history?", true)

	if err := EnsureDataDir(opts.DataDir); err != nil {
		c.printf("%s %v\n", warnStyle.Render("⚠"), err)
	}
	return c.configure(opts)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
