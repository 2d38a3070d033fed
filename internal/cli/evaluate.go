package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/service"
)

// Case is one evaluation request read from a JSON or YAML file.
type Case struct {
	CalculatorID string             `json:"calculator_id" yaml:"calculator_id"`
	Inputs       map[string]float64 `json:"inputs" yaml:"inputs"`
	PatientID    string             `json:"patient_id,omitempty" yaml:"patient_id,omitempty"`
	Notes        string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// CaseResult is the outcome of one batch case.
type CaseResult struct {
	File   string                   `json:"file"`
	Result *domain.CalculatorResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
	Fields []string                 `json:"fields,omitempty"`
}

// LoadCase reads a case file. Files ending in .yaml or .yml are YAML, others JSON.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Case
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// ParseAssignments converts field=value pairs into inputs.
func ParseAssignments(pairs map[string]string) (domain.Inputs, error) {
	in := make(domain.Inputs, len(pairs))
	for field, raw := range pairs {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", domain.ErrInvalidNumber, field, raw)
		}
		in[field] = v
	}
	return in, nil
}

// ExpandBatch returns the files matching a doublestar pattern in lexical order.
func ExpandBatch(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

type evaluateFlags struct {
	set     map[string]string
	file    string
	batch   string
	record  bool
	patient string
	notes   string
}

func (a *app) evaluateCommand() *cobra.Command {
	var f evaluateFlags

	cmd := &cobra.Command{
		Use:   "evaluate [calculator-id]",
		Short: "Evaluate a calculator",
		Example: `  calcctl evaluate curb-65 --set confusion=1 --set bun=1 --set respiratory_rate=0 --set blood_pressure=0 --set age=1
  calcctl evaluate --file case.yaml
  calcctl evaluate --batch 'cases/**/*.json' -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			if f.batch != "" {
				return a.runBatch(cmd, id, f)
			}
			return a.runSingle(cmd, id, f)
		},
	}

	fl := cmd.Flags()
	fl.StringToStringVar(&f.set, "set", nil, "field=value input, repeatable")
	fl.StringVarP(&f.file, "file", "f", "", "JSON or YAML case file")
	fl.StringVar(&f.batch, "batch", "", "glob of case files, for example 'cases/**/*.yaml'")
	fl.BoolVar(&f.record, "record", false, "record evaluations in the history database")
	fl.StringVar(&f.patient, "patient", "", "patient reference stored with recorded evaluations")
	fl.StringVar(&f.notes, "notes", "", "note stored with recorded evaluations")
	cmd.MarkFlagsMutuallyExclusive("file", "batch")
	cmd.MarkFlagsMutuallyExclusive("set", "batch")
	return cmd
}

func (a *app) request(id string, c *Case, f evaluateFlags) (service.EvaluateRequest, error) {
	req := service.EvaluateRequest{
		CalculatorID: id,
		Inputs:       domain.Inputs{},
		PatientID:    f.patient,
		Notes:        f.notes,
		Record:       f.record,
	}
	if c != nil {
		if req.CalculatorID == "" {
			req.CalculatorID = c.CalculatorID
		}
		for k, v := range c.Inputs {
			req.Inputs[k] = v
		}
		if c.PatientID != "" {
			req.PatientID = c.PatientID
		}
		if c.Notes != "" {
			req.Notes = c.Notes
		}
	}
	if req.CalculatorID == "" {
		return req, errors.New("calculator id is required as an argument or in the case file")
	}
	if f.record && a.v.GetString(keyHistoryDB) == "" {
		return req, errors.New("--record needs --history-db")
	}
	return req, nil
}

func (a *app) runSingle(cmd *cobra.Command, id string, f evaluateFlags) error {
	var c *Case
	if f.file != "" {
		var err error
		if c, err = LoadCase(f.file); err != nil {
			return err
		}
	}
	req, err := a.request(id, c, f)
	if err != nil {
		return err
	}
	assigned, err := ParseAssignments(f.set)
	if err != nil {
		return err
	}
	for k, v := range assigned {
		req.Inputs[k] = v
	}

	svc, err := a.calc()
	if err != nil {
		return err
	}
	result, err := svc.Evaluate(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return a.render(out, result, func() error {
		newStyles(a.v.GetBool(keyNoColor)).printResult(out, result)
		return nil
	})
}

func (a *app) runBatch(cmd *cobra.Command, id string, f evaluateFlags) error {
	files, err := ExpandBatch(f.batch)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %q", f.batch)
	}
	svc, err := a.calc()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	results := make([]CaseResult, 0, len(files))
	failed := 0
	for _, file := range files {
		cr := CaseResult{File: file}
		c, err := LoadCase(file)
		var req service.EvaluateRequest
		if err == nil {
			req, err = a.request(id, c, f)
		}
		if err == nil {
			cr.Result, err = svc.Evaluate(ctx, req)
		}
		if err != nil {
			failed++
			cr.Error = err.Error()
			var ve domain.ValidationErrors
			if errors.As(err, &ve) {
				cr.Fields = ve.FieldIDs()
			}
		}
		results = append(results, cr)
	}

	out := cmd.OutOrStdout()
	err = a.render(out, results, func() error {
		st := newStyles(a.v.GetBool(keyNoColor))
		for _, cr := range results {
			fmt.Fprintln(out, st.dim.Render("── "+cr.File))
			if cr.Error != "" {
				fmt.Fprintln(out, st.fail.Render("✗ "+cr.Error))
				continue
			}
			st.printResult(out, cr.Result)
		}
		fmt.Fprintf(out, "\n%d evaluated, %d failed\n", len(results)-failed, failed)
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}
