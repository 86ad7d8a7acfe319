package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/matfile"
)

// inspectCommand creates the inspect command for listing MAT-file contents.
func (c *CLI) inspectCommand() *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "inspect <file.mat>",
		Short: "List the variables of a MAT-file",
		Long: `List the variables of a MAT-file with their class and shape.

With --show, print the contents of one variable instead. Char arrays are
printed one row per line, numeric arrays one row per line with columns
separated by spaces.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArgs(matExts),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := matfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("read MAT-file", "path", args[0], "variables", len(f.Variables))

			w := cmd.OutOrStdout()
			if show == "" {
				printVariables(w, f)
				return nil
			}
			v, ok := f.Lookup(show)
			if !ok {
				return errors.New(errors.ErrCodeInvalidArgument, "no variable %q in %s (have: %s)", show, args[0], strings.Join(f.Names(), ", "))
			}
			return printVariable(w, v)
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "print the contents of the named variable")
	return cmd
}

// printVariables prints a table of the variables in f.
func printVariables(w io.Writer, f *matfile.File) {
	rows := make([][]string, len(f.Variables))
	for i, v := range f.Variables {
		rows[i] = []string{v.Name, v.Class.String(), formatShape(v.Rows, v.Cols)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Class", "Shape").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		})

	if f.Header != "" {
		fmt.Fprintln(w, StyleDim.Render(f.Header))
	}
	fmt.Fprintln(w, t.Render())
}

// printVariable prints the contents of v, one array row per line.
func printVariable(w io.Writer, v *matfile.Variable) error {
	if v.Class == matfile.ClassChar {
		rows, err := v.Strings()
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Fprintln(w, r)
		}
		return nil
	}

	values, err := v.Float64s()
	if err != nil {
		return err
	}
	cells := make([]string, v.Cols)
	for r := range v.Rows {
		for c := range v.Cols {
			cells[c] = strconv.FormatFloat(values[c*v.Rows+r], 'g', -1, 64)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	return nil
}
