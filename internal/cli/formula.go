package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

func (a *app) formulaCommand() *cobra.Command {
	var set map[string]string

	cmd := &cobra.Command{
		Use:   "formula [name]",
		Short: "Compute a clinical formula, or list formulas when no name is given",
		Example: `  calcctl formula bmi --set weight_kg=70 --set height_cm=175
  calcctl formula`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				list := make([]formulas.Formula, 0, len(formulas.Names()))
				for _, name := range formulas.Names() {
					f, _ := formulas.Lookup(name)
					list = append(list, f)
				}
				return a.render(out, list, func() error {
					rows := make([][]string, len(list))
					for i, f := range list {
						params := make([]string, len(f.Params))
						for j, p := range f.Params {
							params[j] = p.Name
						}
						rows[i] = []string{f.Name, f.Unit, strings.Join(params, ",")}
					}
					newStyles(a.v.GetBool(keyNoColor)).table(out, []string{"NAME", "UNIT", "PARAMS"}, rows)
					return nil
				})
			}

			params, err := ParseAssignments(set)
			if err != nil {
				return err
			}
			svc, err := a.calc()
			if err != nil {
				return err
			}
			res, err := svc.ComputeFormula(args[0], params)
			if err != nil {
				return err
			}
			return a.render(out, res, func() error {
				fmt.Fprintf(out, "%s = %.2f %s\n", res.Name, res.Value, res.Unit)
				return nil
			})
		},
	}
	cmd.Flags().StringToStringVar(&set, "set", nil, "param=value, repeatable")
	return cmd
}
