// Package cli implements calcctl, the command-line client of the calculator engine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/clinical-calculator-mcp-server/internal/calculators"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/registry"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Viper keys bound to persistent flags.
const (
	keyOutput    = "output"
	keyHistoryDB = "history-db"
	keyLogLevel  = "log-level"
	keyNoColor   = "no-color"
)

// configFiles are read from the working directory, first match wins.
var configFiles = []string{".calcctl.yaml", ".calcctl.yml", ".calcctl.json"}

type app struct {
	v       *viper.Viper
	logger  *logrus.Logger
	svc     *service.CalculatorService
	cfgFile string
}

// NewRootCommand builds the calcctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "calcctl",
		Short: "Evaluate clinical calculators from the command line",
		Long: `calcctl lists, describes and evaluates the built-in clinical calculators.

Inputs may be given as --set field=value pairs or as JSON/YAML case files,
including glob batches such as 'cases/**/*.yaml'. With --history-db set,
evaluations can be recorded and exported from a local SQLite history.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./.calcctl.yaml)")
	pf.StringP(keyOutput, "o", OutputText, "output format: text, json or yaml")
	pf.String(keyHistoryDB, "", "SQLite history database path")
	pf.String(keyLogLevel, "warn", "log level")
	pf.Bool(keyNoColor, false, "disable colored output")
	for _, key := range []string{keyOutput, keyHistoryDB, keyLogLevel, keyNoColor} {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}
	a.v.SetEnvPrefix("CALCCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.listCommand(),
		a.schemaCommand(),
		a.evaluateCommand(),
		a.formulaCommand(),
		a.verifyCommand(),
		a.historyCommand(),
	)
	return root
}

// Execute runs calcctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := a.readConfig(); err != nil {
		return err
	}

	switch a.output() {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output())
	}

	a.logger = logrus.New()
	a.logger.SetOutput(cmd.ErrOrStderr())
	if lvl, err := logrus.ParseLevel(a.v.GetString(keyLogLevel)); err == nil {
		a.logger.SetLevel(lvl)
	}
	return nil
}

func (a *app) readConfig() error {
	path := a.cfgFile
	if path == "" {
		for _, candidate := range configFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

func (a *app) output() string {
	return strings.ToLower(a.v.GetString(keyOutput))
}

// calc builds the calculator service on first use. History is attached only
// when a database path is configured.
func (a *app) calc() (*service.CalculatorService, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	reg := registry.New(a.logger)
	if err := calculators.RegisterAll(reg); err != nil {
		return nil, err
	}

	var opts []service.Option
	if path := a.v.GetString(keyHistoryDB); path != "" {
		store, err := history.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		opts = append(opts, service.WithHistory(store))
	}

	a.svc = service.NewCalculatorService(reg, a.logger, opts...)
	return a.svc, nil
}

func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// render writes v as JSON or YAML, or calls text for the text format.
func (a *app) render(w io.Writer, v any, text func() error) error {
	switch a.output() {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		return writeYAML(w, v)
	default:
		return text()
	}
}

// writeYAML encodes v with its JSON field names.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
